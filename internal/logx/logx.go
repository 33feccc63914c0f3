// Package logx holds the pslog helpers shared across surftabs.
package logx

import (
	"context"
	"io"
	"strings"

	"pkt.systems/pslog"
)

type contextKey int

const tabKey contextKey = iota

// Ctx returns the logger bound to ctx.
func Ctx(ctx context.Context) pslog.Logger {
	if ctx == nil {
		ctx = context.Background()
	}
	return pslog.Ctx(ctx)
}

// New builds a structured logger writing to w at the named level, matched
// case-insensitively. Unknown levels fall back to info.
func New(w io.Writer, level string) pslog.Logger {
	return pslog.NewWithOptions(w, Options(level))
}

// Options returns structured, colourless logger options for level.
func Options(level string) pslog.Options {
	opts := pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	}
	return opts
}

// Discard returns a logger that drops everything.
func Discard() pslog.Logger {
	return New(io.Discard, "error")
}

// WithTab annotates the logger with a tab id if present. A tab already
// recorded on ctx is not repeated.
func WithTab(ctx context.Context, log pslog.Logger, tabID string) pslog.Logger {
	if tabID == "" {
		return log
	}
	if ctx != nil {
		if current, ok := ctx.Value(tabKey).(string); ok && current == tabID {
			return log
		}
	}
	return log.With("tab", tabID)
}

// WithURL annotates the logger with a destination URL when available.
func WithURL(log pslog.Logger, url string) pslog.Logger {
	if url != "" {
		log = log.With("url", url)
	}
	return log
}

// ContextWithTab stores the tab marker on the context for log de-duplication.
func ContextWithTab(ctx context.Context, tabID string) context.Context {
	if ctx == nil || tabID == "" {
		return ctx
	}
	return context.WithValue(ctx, tabKey, tabID)
}

// ContextWithTabLogger attaches the logger and tab marker to the context.
func ContextWithTabLogger(ctx context.Context, log pslog.Logger, tabID string) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithTab(ctx, tabID)
}
