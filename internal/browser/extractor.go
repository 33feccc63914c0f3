package browser

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Article is the readable content pulled out of a fetched page.
type Article struct {
	Title       string
	Byline      string
	SiteName    string
	Content     string // cleaned HTML
	TextContent string
	BaseURL     string // for resolving relative links
}

// Extract turns a fetch result into an article. HTML goes through
// readability; text content is wrapped in <pre> as-is.
func Extract(result *FetchResult) (*Article, error) {
	if !IsHTML(result.ContentType) {
		text := string(result.Body)
		return &Article{
			Content:     "<pre>" + html.EscapeString(text) + "</pre>",
			TextContent: text,
			BaseURL:     result.FinalURL,
		}, nil
	}

	parsedURL, err := url.Parse(result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(result.Body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("extracting article: %w", err)
	}

	return &Article{
		Title:       strings.TrimSpace(article.Title),
		Byline:      article.Byline,
		SiteName:    article.SiteName,
		Content:     article.Content,
		TextContent: article.TextContent,
		BaseURL:     result.FinalURL,
	}, nil
}

// IsHTML reports whether the content type is an HTML document.
func IsHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// IsDisplayable reports whether a terminal can show the content type at all.
// An empty content type is assumed to be text.
func IsDisplayable(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case ct == "":
		return true
	case strings.HasPrefix(ct, "text/"):
		return true
	case IsHTML(ct):
		return true
	case strings.Contains(ct, "json"), strings.Contains(ct, "xml"), strings.Contains(ct, "javascript"):
		return true
	default:
		return false
	}
}
