package tabs

// The functions in this file are the pure transitions behind Navigator.
// Each takes a snapshot and returns its successor; none touches the display.

// Navigate resolves raw, pushes it onto the active tab's history and clears
// any load error. It always succeeds.
func Navigate(s *State, raw string) (*State, Destination) {
	d := Resolve(raw)
	t := s.Active()
	h := t.History().Push(d)
	title := DeriveTitle(d)
	next, _ := s.UpdateTab(t.ID(), TabPatch{
		History:        &h,
		Title:          &title,
		ClearLoadError: true,
	})
	return next, d
}

// Back moves the active tab one entry back. Any load error belonged to the
// entry being left and is cleared.
func Back(s *State) (*State, error) {
	return step(s, History.Back)
}

// Forward moves the active tab one entry forward.
func Forward(s *State) (*State, error) {
	return step(s, History.Forward)
}

func step(s *State, move func(History) (History, error)) (*State, error) {
	t := s.Active()
	h, err := move(t.History())
	if err != nil {
		return s, err
	}
	title := DeriveTitle(h.Current())
	return s.UpdateTab(t.ID(), TabPatch{History: &h, Title: &title, ClearLoadError: true})
}

// Refresh clears the active tab's load error. History is untouched.
func Refresh(s *State) (*State, Destination) {
	t := s.Active()
	if t.LoadError() == nil {
		return s, t.Current()
	}
	next, _ := s.UpdateTab(t.ID(), TabPatch{ClearLoadError: true})
	return next, t.Current()
}

// ReportLoadSuccess records a successful load of the active tab's current
// destination.
func ReportLoadSuccess(s *State, title string) (*State, error) {
	t := s.Active()
	return ReportLoadSuccessFor(s, t.ID(), t.URL(), title)
}

// ReportLoadSuccessFor records that url finished loading in tab id. The load
// error is cleared and the title set, derived from the host when empty.
func ReportLoadSuccessFor(s *State, id TabID, url, title string) (*State, error) {
	t, err := reportTarget(s, id, url)
	if err != nil {
		return s, err
	}
	if title == "" {
		title = DeriveTitle(t.Current())
	}
	return s.UpdateTab(id, TabPatch{Title: &title, ClearLoadError: true})
}

// ReportDisplayError records that the display refused the active tab's
// current destination.
func ReportDisplayError(s *State, message, titleOverride string) (*State, error) {
	t := s.Active()
	return ReportDisplayErrorFor(s, t.ID(), t.URL(), message, titleOverride)
}

// ReportDisplayErrorFor sets the load error of tab id. An empty titleOverride
// keeps the current title. History is untouched.
func ReportDisplayErrorFor(s *State, id TabID, url, message, titleOverride string) (*State, error) {
	if _, err := reportTarget(s, id, url); err != nil {
		return s, err
	}
	patch := TabPatch{LoadError: &LoadError{Reason: message}}
	if titleOverride != "" {
		patch.Title = &titleOverride
	}
	return s.UpdateTab(id, patch)
}

func reportTarget(s *State, id TabID, url string) (*Tab, error) {
	t, ok := s.Tab(id)
	if !ok {
		return nil, ErrTabNotFound
	}
	if t.URL() != url {
		return nil, ErrStaleReport
	}
	return t, nil
}
