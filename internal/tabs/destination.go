package tabs

import (
	"net/url"
	"strings"
)

// Kind classifies a destination.
type Kind int

const (
	KindBlank    Kind = iota // the empty new-tab destination
	KindWeb                  // http and https
	KindInternal             // about:, file:, data: and friends
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindWeb:
		return "web"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// NewTabTitle is the label for blank and internal destinations.
const NewTabTitle = "New Tab"

const defaultScheme = "https://"

var (
	webSchemes      = []string{"http://", "https://"}
	internalSchemes = []string{"about:", "file:", "data:", "view-source:", "ftp:"}
)

// Destination is an opaque navigation target.
type Destination struct {
	URL  string
	Kind Kind
}

// Blank is the destination every fresh tab starts on.
var Blank = Destination{}

// IsBlank reports whether d is the empty new-tab destination.
func (d Destination) IsBlank() bool {
	return d.URL == ""
}

// NormalizeURL trims raw and prepends https:// unless it already carries a
// recognised scheme. Empty input stays empty.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if hasScheme(raw, webSchemes) || hasScheme(raw, internalSchemes) {
		return raw
	}
	return defaultScheme + raw
}

// Resolve normalises raw and classifies the result.
func Resolve(raw string) Destination {
	u := NormalizeURL(raw)
	switch {
	case u == "":
		return Blank
	case hasScheme(u, webSchemes):
		return Destination{URL: u, Kind: KindWeb}
	default:
		return Destination{URL: u, Kind: KindInternal}
	}
}

// DeriveTitle returns the display label used when the display surface
// provides none: the host for web destinations, NewTabTitle otherwise.
func DeriveTitle(d Destination) string {
	if d.Kind != KindWeb || d.URL == "" {
		return NewTabTitle
	}
	u, err := url.Parse(d.URL)
	if err != nil || u.Hostname() == "" {
		return d.URL
	}
	return u.Hostname()
}

func hasScheme(raw string, schemes []string) bool {
	lower := strings.ToLower(raw)
	for _, s := range schemes {
		if strings.HasPrefix(lower, s) {
			return true
		}
	}
	return false
}
