package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "surftabs/0.1 (terminal browser)"
	maxBodySize      = 10 * 1024 * 1024 // 10 MB
	maxRedirects     = 10
)

// sharedTransport is a tuned HTTP transport shared across fetchers.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ResponseHeaderTimeout: 15 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
}

var errTooManyRedirects = errors.New("too many redirects")

// FetchResult holds the raw response from fetching a URL.
type FetchResult struct {
	URL         string
	FinalURL    string // after redirects
	StatusCode  int
	ContentType string
	Header      http.Header
	Body        []byte
	Duration    time.Duration
}

// Fetcher performs page GETs with browser-like headers and a hard timeout.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns a fetcher. Zero values select the defaults.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		client: &http.Client{
			Transport: sharedTransport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("%w (>%d)", errTooManyRedirects, maxRedirects)
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Fetch retrieves rawURL. Non-2xx responses are returned, not treated as errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,text/plain;q=0.8,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &FetchResult{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Header:      resp.Header,
		Body:        body,
		Duration:    time.Since(start),
	}, nil
}
