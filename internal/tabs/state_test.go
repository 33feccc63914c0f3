package tabs

import (
	"errors"
	"fmt"
	"testing"
)

func seqIDs() StateOption {
	n := 0
	return WithIDGenerator(func() TabID {
		id := TabID(fmt.Sprintf("t%d", n))
		n++
		return id
	})
}

func checkInvariants(t *testing.T, s *State) {
	t.Helper()
	if s.Len() == 0 {
		t.Fatalf("state has no tabs")
	}
	if s.Active() == nil {
		t.Fatalf("active id %q does not resolve", s.ActiveID())
	}
	seen := map[TabID]bool{}
	for _, tab := range s.Tabs() {
		if seen[tab.ID()] {
			t.Fatalf("duplicate tab id %q", tab.ID())
		}
		seen[tab.ID()] = true
		h := tab.History()
		if h.Len() == 0 || h.Cursor() < 0 || h.Cursor() >= h.Len() {
			t.Fatalf("tab %q history len=%d cursor=%d", tab.ID(), h.Len(), h.Cursor())
		}
	}
}

func TestNewStateHasOneDefaultTab(t *testing.T) {
	s := NewState(seqIDs())
	checkInvariants(t, s)
	tab := s.Active()
	if s.Len() != 1 || tab.ID() != "t0" {
		t.Fatalf("tabs=%d active=%q", s.Len(), tab.ID())
	}
	if tab.URL() != "" || tab.Title() != NewTabTitle || tab.LoadError() != nil {
		t.Fatalf("default tab = url %q title %q err %v", tab.URL(), tab.Title(), tab.LoadError())
	}
}

func TestUUIDGeneratorIsUnique(t *testing.T) {
	s := NewState()
	for i := 0; i < 20; i++ {
		s = s.AddTab()
	}
	checkInvariants(t, s)
}

func TestAddTabAppendsAndActivates(t *testing.T) {
	s := NewState(seqIDs())
	s = s.AddTab().AddTab()
	checkInvariants(t, s)
	tabs := s.Tabs()
	if len(tabs) != 3 || tabs[2].ID() != "t2" {
		t.Fatalf("tabs = %v", ids(tabs))
	}
	if s.ActiveID() != "t2" {
		t.Fatalf("active = %q, want t2", s.ActiveID())
	}
}

func TestCloseTab(t *testing.T) {
	t.Run("non-active keeps active", func(t *testing.T) {
		s := NewState(seqIDs()).AddTab().AddTab() // t0 t1 t2, active t2
		next, err := s.CloseTab("t1")
		if err != nil {
			t.Fatalf("close: %v", err)
		}
		checkInvariants(t, next)
		if next.ActiveID() != "t2" {
			t.Fatalf("active = %q, want t2", next.ActiveID())
		}
		if got := ids(next.Tabs()); fmt.Sprint(got) != "[t0 t2]" {
			t.Fatalf("tabs = %v", got)
		}
	})

	t.Run("active picks first remaining", func(t *testing.T) {
		s := NewState(seqIDs()).AddTab().AddTab()
		s, _ = s.SelectTab("t1")
		next, err := s.CloseTab("t1")
		if err != nil {
			t.Fatalf("close: %v", err)
		}
		checkInvariants(t, next)
		if next.ActiveID() != "t0" {
			t.Fatalf("active = %q, want t0", next.ActiveID())
		}
	})

	t.Run("closing first active tab picks new first", func(t *testing.T) {
		s := NewState(seqIDs()).AddTab().AddTab()
		s, _ = s.SelectTab("t0")
		next, _ := s.CloseTab("t0")
		if next.ActiveID() != "t1" {
			t.Fatalf("active = %q, want t1", next.ActiveID())
		}
	})

	t.Run("last tab is replaced", func(t *testing.T) {
		s := NewState(seqIDs())
		s, _ = Navigate(s, "example.com")
		next, err := s.CloseTab("t0")
		if err != nil {
			t.Fatalf("close: %v", err)
		}
		checkInvariants(t, next)
		tab := next.Active()
		if next.Len() != 1 || tab.ID() != "t1" {
			t.Fatalf("tabs=%v active=%q", ids(next.Tabs()), tab.ID())
		}
		if tab.History().Len() != 1 || !tab.Current().IsBlank() {
			t.Fatalf("replacement tab history len=%d current=%+v", tab.History().Len(), tab.Current())
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s := NewState(seqIDs()).AddTab()
		next, err := s.CloseTab("missing")
		if !errors.Is(err, ErrTabNotFound) {
			t.Fatalf("err = %v, want ErrTabNotFound", err)
		}
		if next != s {
			t.Fatalf("state changed on unknown id")
		}
	})

	t.Run("predecessor untouched", func(t *testing.T) {
		s := NewState(seqIDs()).AddTab()
		_, _ = s.CloseTab("t0")
		if s.Len() != 2 || s.ActiveID() != "t1" {
			t.Fatalf("predecessor mutated: %v active %q", ids(s.Tabs()), s.ActiveID())
		}
	})
}

func TestSelectTab(t *testing.T) {
	s := NewState(seqIDs()).AddTab()
	next, err := s.SelectTab("t0")
	if err != nil || next.ActiveID() != "t0" {
		t.Fatalf("select t0: active=%q err=%v", next.ActiveID(), err)
	}

	same, err := next.SelectTab("nope")
	if !errors.Is(err, ErrTabNotFound) {
		t.Fatalf("err = %v, want ErrTabNotFound", err)
	}
	if same != next {
		t.Fatalf("unknown select changed state")
	}
	if same.ActiveID() != "t0" || fmt.Sprint(ids(same.Tabs())) != "[t0 t1]" {
		t.Fatalf("unknown select altered contents")
	}
}

func TestSelectOffsetWraps(t *testing.T) {
	s := NewState(seqIDs()).AddTab().AddTab() // active t2
	if got := s.SelectOffset(1).ActiveID(); got != "t0" {
		t.Fatalf("next from last = %q, want t0", got)
	}
	if got := s.SelectOffset(-1).ActiveID(); got != "t1" {
		t.Fatalf("prev from last = %q, want t1", got)
	}
	if got := s.SelectOffset(3); got != s {
		t.Fatalf("full cycle should be a no-op")
	}
	single := NewState(seqIDs())
	if single.SelectOffset(1) != single {
		t.Fatalf("single tab offset should be a no-op")
	}
}

func TestUpdateTabReplacesOnlyThatTab(t *testing.T) {
	s := NewState(seqIDs()).AddTab()
	t0, _ := s.Tab("t0")
	t1, _ := s.Tab("t1")

	title := "Renamed"
	next, err := s.UpdateTab("t1", TabPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	n0, _ := next.Tab("t0")
	n1, _ := next.Tab("t1")
	if n0 != t0 {
		t.Fatalf("untouched tab was replaced")
	}
	if n1 == t1 {
		t.Fatalf("updated tab kept its identity")
	}
	if n1.Title() != "Renamed" || t1.Title() != NewTabTitle {
		t.Fatalf("titles: new %q old %q", n1.Title(), t1.Title())
	}
	if n1.History().Len() != t1.History().Len() {
		t.Fatalf("history changed by title patch")
	}

	next, err = next.UpdateTab("t1", TabPatch{LoadError: &LoadError{Reason: "blocked"}})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	n1, _ = next.Tab("t1")
	if n1.LoadError() == nil || n1.Title() != "Renamed" {
		t.Fatalf("load error patch: err=%v title=%q", n1.LoadError(), n1.Title())
	}
	next, _ = next.UpdateTab("t1", TabPatch{ClearLoadError: true})
	n1, _ = next.Tab("t1")
	if n1.LoadError() != nil {
		t.Fatalf("load error not cleared")
	}

	if _, err := s.UpdateTab("ghost", TabPatch{Title: &title}); !errors.Is(err, ErrTabNotFound) {
		t.Fatalf("err = %v, want ErrTabNotFound", err)
	}
}

func TestLoadErrorMatchesDisplayRefused(t *testing.T) {
	var err error = &LoadError{Reason: "X-Frame-Options: DENY"}
	if !errors.Is(err, ErrDisplayRefused) {
		t.Fatalf("LoadError should match ErrDisplayRefused")
	}
	if err.Error() != "display refused: X-Frame-Options: DENY" {
		t.Fatalf("message = %q", err.Error())
	}
}

func ids(tabs []*Tab) []TabID {
	out := make([]TabID, 0, len(tabs))
	for _, t := range tabs {
		out = append(out, t.ID())
	}
	return out
}
