package tabs

import (
	"github.com/google/uuid"
)

// IDGenerator produces fresh tab ids.
type IDGenerator func() TabID

// UUIDGenerator returns random UUID-based tab ids.
func UUIDGenerator() TabID {
	return TabID(uuid.NewString())
}

// State is an immutable snapshot of the tab collection. It always holds at
// least one tab and its active id always resolves to one of them.
//
// Commands return a successor *State. When a command fails the receiver
// itself is returned with the error, so an unchanged state compares equal.
type State struct {
	tabs   []*Tab
	active TabID
	newID  IDGenerator
}

// StateOption configures NewState.
type StateOption func(*State)

// WithIDGenerator overrides the tab id source.
func WithIDGenerator(gen IDGenerator) StateOption {
	return func(s *State) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewState returns a state holding one fresh, active tab.
func NewState(opts ...StateOption) *State {
	s := &State{newID: UUIDGenerator}
	for _, opt := range opts {
		opt(s)
	}
	t := newTab(s.newID())
	s.tabs = []*Tab{t}
	s.active = t.id
	return s
}

// Tabs returns the tabs in tab-bar order. The slice is a copy; the tabs are
// shared and immutable.
func (s *State) Tabs() []*Tab {
	return append([]*Tab(nil), s.tabs...)
}

// Len returns the number of tabs.
func (s *State) Len() int { return len(s.tabs) }

// ActiveID returns the active tab id.
func (s *State) ActiveID() TabID { return s.active }

// Active returns the active tab.
func (s *State) Active() *Tab {
	t, _ := s.Tab(s.active)
	return t
}

// ActiveIndex returns the position of the active tab in tab order.
func (s *State) ActiveIndex() int {
	return s.indexOf(s.active)
}

// Tab looks up a tab by id.
func (s *State) Tab(id TabID) (*Tab, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.tabs[i], true
}

func (s *State) indexOf(id TabID) int {
	for i, t := range s.tabs {
		if t.id == id {
			return i
		}
	}
	return -1
}

func (s *State) with(tabs []*Tab, active TabID) *State {
	return &State{tabs: tabs, active: active, newID: s.newID}
}

// AddTab appends a fresh tab and makes it active.
func (s *State) AddTab() *State {
	t := newTab(s.newID())
	tabs := make([]*Tab, 0, len(s.tabs)+1)
	tabs = append(tabs, s.tabs...)
	tabs = append(tabs, t)
	return s.with(tabs, t.id)
}

// CloseTab removes the tab with id. Closing the last tab replaces it with a
// fresh one. Closing the active tab activates the first remaining tab.
func (s *State) CloseTab(id TabID) (*State, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, ErrTabNotFound
	}
	tabs := make([]*Tab, 0, len(s.tabs))
	tabs = append(tabs, s.tabs[:i]...)
	tabs = append(tabs, s.tabs[i+1:]...)
	if len(tabs) == 0 {
		tabs = append(tabs, newTab(s.newID()))
	}
	active := s.active
	if active == id {
		active = tabs[0].id
	}
	return s.with(tabs, active), nil
}

// SelectTab makes id the active tab.
func (s *State) SelectTab(id TabID) (*State, error) {
	if s.indexOf(id) < 0 {
		return s, ErrTabNotFound
	}
	if s.active == id {
		return s, nil
	}
	return s.with(s.tabs, id), nil
}

// SelectOffset moves the active pointer delta positions through tab order,
// wrapping at either end.
func (s *State) SelectOffset(delta int) *State {
	n := len(s.tabs)
	if n < 2 || delta%n == 0 {
		return s
	}
	i := ((s.ActiveIndex()+delta)%n + n) % n
	return s.with(s.tabs, s.tabs[i].id)
}

// UpdateTab replaces the patched fields of the tab with id.
func (s *State) UpdateTab(id TabID, p TabPatch) (*State, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, ErrTabNotFound
	}
	tabs := append([]*Tab(nil), s.tabs...)
	tabs[i] = s.tabs[i].apply(p)
	return s.with(tabs, s.active), nil
}
