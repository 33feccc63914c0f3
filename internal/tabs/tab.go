package tabs

// TabID identifies a tab for its whole lifetime. Ids are never reused.
type TabID string

// Tab is one browsing context. Tabs are immutable: every change builds a new
// *Tab, so comparing pointers tells an observer which tab changed.
type Tab struct {
	id      TabID
	history History
	title   string
	loadErr *LoadError
}

func newTab(id TabID) *Tab {
	return &Tab{
		id:      id,
		history: NewHistory(),
		title:   NewTabTitle,
	}
}

// ID returns the tab identifier.
func (t *Tab) ID() TabID { return t.id }

// Current returns the destination on display.
func (t *Tab) Current() Destination { return t.history.Current() }

// URL returns the URL of the destination on display.
func (t *Tab) URL() string { return t.history.Current().URL }

// Title returns the display label.
func (t *Tab) Title() string { return t.title }

// LoadError returns the display refusal for the current destination, or nil.
func (t *Tab) LoadError() *LoadError { return t.loadErr }

// History returns the tab's navigation history.
func (t *Tab) History() History { return t.history }

// CanGoBack reports whether Back would move.
func (t *Tab) CanGoBack() bool { return t.history.CanGoBack() }

// CanGoForward reports whether Forward would move.
func (t *Tab) CanGoForward() bool { return t.history.CanGoForward() }

// TabPatch names the fields UpdateTab replaces. Nil fields are left alone.
type TabPatch struct {
	Title          *string
	History        *History
	LoadError      *LoadError
	ClearLoadError bool
}

func (t *Tab) apply(p TabPatch) *Tab {
	next := *t
	if p.Title != nil {
		next.title = *p.Title
	}
	if p.History != nil {
		next.history = *p.History
	}
	if p.ClearLoadError {
		next.loadErr = nil
	}
	if p.LoadError != nil {
		le := *p.LoadError
		next.loadErr = &le
	}
	return &next
}
