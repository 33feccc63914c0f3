package tabs

// History is a back/forward navigation stack. It is a value: Push, Back and
// Forward return a successor and never modify the receiver.
//
// entries is never empty and 0 <= cursor < len(entries). The zero value
// behaves like NewHistory.
type History struct {
	entries []Destination
	cursor  int
}

// NewHistory returns a history holding only the blank destination.
func NewHistory() History {
	return History{entries: []Destination{Blank}}
}

func (h History) normalized() History {
	if len(h.entries) == 0 {
		return NewHistory()
	}
	return h
}

// Push discards any forward entries, appends d and moves the cursor onto it.
func (h History) Push(d Destination) History {
	h = h.normalized()
	entries := make([]Destination, h.cursor+1, h.cursor+2)
	copy(entries, h.entries[:h.cursor+1])
	entries = append(entries, d)
	return History{entries: entries, cursor: len(entries) - 1}
}

// Back moves one step back. It returns ErrAtBoundary and the receiver
// unchanged when already at the first entry.
func (h History) Back() (History, error) {
	h = h.normalized()
	if h.cursor == 0 {
		return h, ErrAtBoundary
	}
	h.cursor--
	return h, nil
}

// Forward moves one step forward. It returns ErrAtBoundary and the receiver
// unchanged when already at the last entry.
func (h History) Forward() (History, error) {
	h = h.normalized()
	if h.cursor == len(h.entries)-1 {
		return h, ErrAtBoundary
	}
	h.cursor++
	return h, nil
}

// Current returns the destination under the cursor.
func (h History) Current() Destination {
	h = h.normalized()
	return h.entries[h.cursor]
}

// Cursor returns the current index.
func (h History) Cursor() int {
	return h.normalized().cursor
}

// Len returns the number of entries.
func (h History) Len() int {
	return len(h.normalized().entries)
}

// Entries returns a copy of all entries in visit order.
func (h History) Entries() []Destination {
	h = h.normalized()
	return append([]Destination(nil), h.entries...)
}

// CanGoBack reports whether there is a previous entry.
func (h History) CanGoBack() bool {
	return h.Cursor() > 0
}

// CanGoForward reports whether there is a next entry.
func (h History) CanGoForward() bool {
	h = h.normalized()
	return h.cursor < len(h.entries)-1
}
