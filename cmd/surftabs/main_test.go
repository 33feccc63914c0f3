package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "data_dir: " + filepath.Join(dir, "data") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "surftabs ") {
		t.Fatalf("version output = %q", out)
	}
}

func TestBookmarksCmdLifecycle(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "bookmarks", "add", "example.com", "--config", cfg)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "bookmarked: https://example.com") {
		t.Fatalf("add output = %q", out)
	}

	out, err = run(t, "bookmarks", "add", "https://example.com", "--config", cfg)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if !strings.Contains(out, "already bookmarked") {
		t.Fatalf("duplicate add output = %q", out)
	}

	out, err = run(t, "bookmarks", "list", "--config", cfg)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "https://example.com\texample.com") {
		t.Fatalf("list output = %q", out)
	}

	if _, err := run(t, "bookmarks", "rm", "example.com", "--config", cfg); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := run(t, "bookmarks", "remove", "example.com", "--config", cfg); err == nil {
		t.Fatal("removing a missing bookmark should fail")
	}
}

func TestBookmarksAddRejectsInternal(t *testing.T) {
	cfg := writeConfig(t)
	if _, err := run(t, "bookmarks", "add", "about:config", "--config", cfg); err == nil {
		t.Fatal("expected error for internal address")
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	cfg := writeConfig(t)
	got, err := loadConfig(cfg, rootFlags{theme: "nord", logLevel: "debug"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got.Theme != "nord" || got.Log.Level != "debug" {
		t.Fatalf("flags not applied: %+v", got)
	}
	if _, err := loadConfig(cfg, rootFlags{theme: "no-such-theme"}); err == nil {
		t.Fatal("expected validation error for unknown theme")
	}
}

func TestHistoryCmdEmpty(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "history", "--config", cfg)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if out != "" {
		t.Fatalf("history output = %q, want empty", out)
	}
}
