package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vidyasagar/surftabs/internal/logx"
	"github.com/vidyasagar/surftabs/internal/tabs"
)

// DefaultCacheSize is the number of rendered pages kept for instant
// back/forward.
const DefaultCacheSize = 50

// RefusedError reports that the surface will not render a destination.
type RefusedError struct {
	URL    string
	Reason string
}

func (e *RefusedError) Error() string {
	return fmt.Sprintf("cannot display %s: %s", e.URL, e.Reason)
}

// Unwrap lets callers match on tabs.ErrDisplayRefused.
func (e *RefusedError) Unwrap() error {
	return tabs.ErrDisplayRefused
}

// Request describes one load.
type Request struct {
	Destination tabs.Destination
	Width       int
	Fresh       bool // bypass the page cache
}

// Surface is the terminal display surface: it fetches, extracts and renders
// destinations into Pages.
type Surface struct {
	fetcher            *Fetcher
	cache              *lru.Cache[string, *Page]
	shortcuts          func() []Link
	respectFramePolicy bool
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithShortcuts sets the source of shortcut tiles for the new-tab page.
func WithShortcuts(fn func() []Link) SurfaceOption {
	return func(s *Surface) { s.shortcuts = fn }
}

// WithFramePolicy makes the surface refuse pages that forbid embedding
// through X-Frame-Options or CSP frame-ancestors.
func WithFramePolicy(respect bool) SurfaceOption {
	return func(s *Surface) { s.respectFramePolicy = respect }
}

// NewSurface builds a surface with an LRU page cache of cacheSize entries.
func NewSurface(fetcher *Fetcher, cacheSize int, opts ...SurfaceOption) (*Surface, error) {
	if fetcher == nil {
		fetcher = NewFetcher(0, "")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *Page](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating page cache: %w", err)
	}
	s := &Surface{fetcher: fetcher, cache: cache}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func cacheKey(width int, url string) string {
	return fmt.Sprintf("%d|%s", textWidth(width), url)
}

// Load renders req.Destination. Failures are returned as errors; refusals
// are *RefusedError.
func (s *Surface) Load(ctx context.Context, req Request) (*Page, error) {
	d := req.Destination
	switch d.Kind {
	case tabs.KindBlank:
		var shortcuts []Link
		if s.shortcuts != nil {
			shortcuts = s.shortcuts()
		}
		return WelcomePage(shortcuts), nil
	case tabs.KindInternal:
		return nil, s.refuse(ctx, &RefusedError{URL: d.URL, Reason: "scheme is not supported by the terminal display"})
	}

	log := logx.Ctx(ctx)
	key := cacheKey(req.Width, d.URL)
	if !req.Fresh {
		if page, ok := s.cache.Get(key); ok {
			log.Debug("page cache hit", "key", key)
			return page, nil
		}
	}

	result, err := s.fetcher.Fetch(ctx, d.URL)
	if err != nil {
		return nil, err
	}
	log.Debug("fetched", "status", result.StatusCode, "content_type", result.ContentType, "final_url", result.FinalURL, "duration", result.Duration)
	if err := s.check(d.URL, result); err != nil {
		return nil, s.refuse(ctx, err)
	}

	article, err := Extract(result)
	if err != nil {
		return nil, err
	}
	page := Render(article, req.Width)
	page.URL = d.URL
	s.cache.Add(key, page)
	return page, nil
}

// refuse logs err when it is a refusal and returns it.
func (s *Surface) refuse(ctx context.Context, err error) error {
	var refused *RefusedError
	if errors.As(err, &refused) {
		logx.Ctx(ctx).Debug("refusing page", "reason", refused.Reason)
	}
	return err
}

// Purge drops all cached pages.
func (s *Surface) Purge() {
	s.cache.Purge()
}

func (s *Surface) check(url string, result *FetchResult) error {
	if result.StatusCode >= http.StatusBadRequest {
		return &RefusedError{URL: url, Reason: fmt.Sprintf("server answered %d %s", result.StatusCode, http.StatusText(result.StatusCode))}
	}
	if !IsDisplayable(result.ContentType) {
		return &RefusedError{URL: url, Reason: "content type " + result.ContentType + " cannot be shown"}
	}
	if s.respectFramePolicy {
		if reason := framePolicy(result.Header); reason != "" {
			return &RefusedError{URL: url, Reason: reason}
		}
	}
	return nil
}

// framePolicy returns a refusal reason when the headers forbid embedding.
func framePolicy(h http.Header) string {
	if h == nil {
		return ""
	}
	switch strings.ToUpper(strings.TrimSpace(h.Get("X-Frame-Options"))) {
	case "DENY":
		return "page forbids embedding (X-Frame-Options: DENY)"
	case "SAMEORIGIN":
		return "page forbids embedding (X-Frame-Options: SAMEORIGIN)"
	}
	for _, directive := range strings.Split(h.Get("Content-Security-Policy"), ";") {
		fields := strings.Fields(strings.ToLower(directive))
		if len(fields) > 0 && fields[0] == "frame-ancestors" {
			if len(fields) == 2 && (fields[1] == "'none'" || fields[1] == "'self'") {
				return "page forbids embedding (CSP frame-ancestors " + fields[1] + ")"
			}
		}
	}
	return ""
}

// IsRefused reports whether err is a display refusal.
func IsRefused(err error) bool {
	var refused *RefusedError
	return errors.As(err, &refused)
}
