package tabs

import "errors"

var (
	// ErrAtBoundary indicates back/forward was requested past either end of a history.
	ErrAtBoundary = errors.New("history at boundary")
	// ErrTabNotFound indicates a command referenced a tab that is not in the collection.
	ErrTabNotFound = errors.New("tab not found")
	// ErrDisplayRefused indicates the display surface declined to render a destination.
	ErrDisplayRefused = errors.New("display refused")
	// ErrStaleReport indicates a display report for a destination the tab has since left.
	ErrStaleReport = errors.New("stale display report")
)

// LoadError is the user-visible notice attached to a tab whose current
// destination could not be rendered. The history entry still stands.
type LoadError struct {
	Reason string
}

func (e *LoadError) Error() string {
	if e.Reason == "" {
		return ErrDisplayRefused.Error()
	}
	return ErrDisplayRefused.Error() + ": " + e.Reason
}

// Unwrap lets callers match on ErrDisplayRefused.
func (e *LoadError) Unwrap() error {
	return ErrDisplayRefused
}
