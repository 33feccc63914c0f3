package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// openTestDB opens a database in a temp dir with a clock that advances one
// second per call.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	db.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return db
}

func TestOpenDBCreatesFile(t *testing.T) {
	db := openTestDB(t)
	if _, err := os.Stat(db.Path()); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestBookmarkStore(t *testing.T) {
	bs := NewBookmarkStore(openTestDB(t))

	added, err := bs.Add("https://go.dev", "Go")
	if err != nil || !added {
		t.Fatalf("Add = %v, %v", added, err)
	}
	added, err = bs.Add("https://go.dev", "Go again")
	if err != nil || added {
		t.Fatalf("duplicate Add = %v, %v; want false, nil", added, err)
	}
	if _, err := bs.Add("https://example.com", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := bs.Add("  ", "blank"); err == nil {
		t.Fatal("Add with empty url should fail")
	}

	list, err := bs.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("List len = %d", len(list))
	}
	if list[0].URL != "https://example.com" || list[1].URL != "https://go.dev" {
		t.Fatalf("List order = %q, %q", list[0].URL, list[1].URL)
	}
	if list[0].Label() != "https://example.com" || list[1].Label() != "Go" {
		t.Fatalf("labels = %q, %q", list[0].Label(), list[1].Label())
	}
	if !list[0].CreatedAt.After(list[1].CreatedAt) {
		t.Fatal("CreatedAt not decoded")
	}

	if !bs.Has("https://go.dev") {
		t.Fatal("Has(go.dev) = false")
	}
	removed, err := bs.Remove("https://go.dev")
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	removed, err = bs.Remove("https://go.dev")
	if err != nil || removed {
		t.Fatalf("second Remove = %v, %v", removed, err)
	}
	if bs.Has("https://go.dev") {
		t.Fatal("Has after Remove = true")
	}
}

func TestVisitLogCollapsesRepeats(t *testing.T) {
	vl := NewVisitLog(openTestDB(t))

	steps := []struct{ url, title string }{
		{"https://a.test", "A"},
		{"https://a.test", ""},
		{"https://b.test", "B"},
		{"https://a.test", "A2"},
		{"", "ignored"},
	}
	for _, s := range steps {
		if err := vl.Record(s.url, s.title); err != nil {
			t.Fatalf("Record(%q): %v", s.url, err)
		}
	}

	visits, err := vl.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	want := []Visit{{URL: "https://a.test", Title: "A2"}, {URL: "https://b.test", Title: "B"}, {URL: "https://a.test", Title: "A"}}
	if len(visits) != len(want) {
		t.Fatalf("got %d visits: %+v", len(visits), visits)
	}
	for i, w := range want {
		if visits[i].URL != w.URL || visits[i].Title != w.Title {
			t.Errorf("visit %d = %+v, want %+v", i, visits[i], w)
		}
	}

	limited, err := vl.Recent(1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("Recent(1) = %v, %v", limited, err)
	}
	if none, _ := vl.Recent(0); none != nil {
		t.Fatalf("Recent(0) = %v", none)
	}
}

func TestVisitLogPrunes(t *testing.T) {
	vl := NewVisitLog(openTestDB(t))
	for i := 0; i < MaxVisits+5; i++ {
		url := "https://a.test"
		if i%2 == 1 {
			url = "https://b.test"
		}
		if err := vl.Record(url, ""); err != nil {
			t.Fatal(err)
		}
	}
	visits, err := vl.Recent(MaxVisits * 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(visits) != MaxVisits {
		t.Fatalf("kept %d visits, want %d", len(visits), MaxVisits)
	}
}
