package tabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"pkt.systems/pslog"
)

type displayCall struct {
	op  string
	id  TabID
	url string
}

type fakeDisplay struct {
	calls []displayCall
}

func (f *fakeDisplay) Load(id TabID, d Destination) {
	f.calls = append(f.calls, displayCall{op: "load", id: id, url: d.URL})
}

func (f *fakeDisplay) Reload(id TabID, d Destination) {
	f.calls = append(f.calls, displayCall{op: "reload", id: id, url: d.URL})
}

func (f *fakeDisplay) last() displayCall {
	if len(f.calls) == 0 {
		return displayCall{}
	}
	return f.calls[len(f.calls)-1]
}

func newTestNavigator(t *testing.T) (*Navigator, *fakeDisplay) {
	t.Helper()
	display := &fakeDisplay{}
	return NewNavigator(context.Background(), display, seqIDs()), display
}

func TestNavigatorScenario(t *testing.T) {
	nav, display := newTestNavigator(t)
	t0 := nav.Snapshot().ActiveID()

	nav.Navigate("example.com")
	tab := nav.Snapshot().Active()
	if tab.URL() != "https://example.com" {
		t.Fatalf("url = %q", tab.URL())
	}
	if tab.History().Len() != 2 || tab.History().Cursor() != 1 {
		t.Fatalf("history len=%d cursor=%d", tab.History().Len(), tab.History().Cursor())
	}
	if got := display.last(); got != (displayCall{"load", t0, "https://example.com"}) {
		t.Fatalf("display call = %+v", got)
	}

	t1 := nav.OpenTab()
	s := nav.Snapshot()
	if s.Len() != 2 || s.ActiveID() != t1 || s.Active().URL() != "" {
		t.Fatalf("after open: tabs=%d active=%q url=%q", s.Len(), s.ActiveID(), s.Active().URL())
	}

	nav.Navigate("https://a.test")
	if err := nav.CloseTab(t1); err != nil {
		t.Fatalf("close: %v", err)
	}
	s = nav.Snapshot()
	checkInvariants(t, s)
	if s.Len() != 1 || s.ActiveID() != t0 {
		t.Fatalf("after close: tabs=%v active=%q", ids(s.Tabs()), s.ActiveID())
	}
	if s.Active().URL() != "https://example.com" {
		t.Fatalf("t0 url = %q", s.Active().URL())
	}
}

func TestNavigatorBackForward(t *testing.T) {
	nav, display := newTestNavigator(t)

	if err := nav.Back(); !errors.Is(err, ErrAtBoundary) {
		t.Fatalf("back on fresh tab err = %v", err)
	}
	if len(display.calls) != 0 {
		t.Fatalf("boundary back reached the display: %+v", display.calls)
	}

	nav.Navigate("a.test")
	nav.Navigate("b.test")
	nav.Navigate("c.test")
	before := nav.Snapshot()

	if err := nav.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if got := nav.Snapshot().Active().URL(); got != "https://b.test" {
		t.Fatalf("after back url = %q", got)
	}
	if got := display.last(); got.op != "load" || got.url != "https://b.test" {
		t.Fatalf("display call = %+v", got)
	}
	if err := nav.Forward(); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if nav.Snapshot().Active().Current() != before.Active().Current() {
		t.Fatalf("round trip mismatch")
	}

	atEnd := nav.Snapshot()
	if err := nav.Forward(); !errors.Is(err, ErrAtBoundary) {
		t.Fatalf("forward at end err = %v", err)
	}
	if nav.Snapshot() != atEnd {
		t.Fatalf("boundary forward changed state")
	}

	_ = nav.Back()
	nav.Navigate("d.test")
	var urls []string
	for _, d := range nav.Snapshot().Active().History().Entries() {
		urls = append(urls, d.URL)
	}
	if strings.Join(urls, ",") != ",https://a.test,https://b.test,https://d.test" {
		t.Fatalf("entries = %v", urls)
	}
	if err := nav.Forward(); !errors.Is(err, ErrAtBoundary) {
		t.Fatalf("forward after branch err = %v", err)
	}
}

func TestNavigatorDisplayErrorLifecycle(t *testing.T) {
	nav, display := newTestNavigator(t)
	nav.Navigate("framed.test")

	if err := nav.ReportDisplayError("refused to embed", "Blocked"); err != nil {
		t.Fatalf("report error: %v", err)
	}
	tab := nav.Snapshot().Active()
	if tab.LoadError() == nil || tab.LoadError().Reason != "refused to embed" {
		t.Fatalf("load error = %v", tab.LoadError())
	}
	if tab.Title() != "Blocked" {
		t.Fatalf("title = %q", tab.Title())
	}
	if tab.History().Len() != 2 || tab.URL() != "https://framed.test" {
		t.Fatalf("display error touched history")
	}

	nav.Refresh()
	if nav.Snapshot().Active().LoadError() != nil {
		t.Fatalf("refresh did not clear load error")
	}
	if got := display.last(); got != (displayCall{"reload", tab.ID(), "https://framed.test"}) {
		t.Fatalf("display call = %+v", got)
	}
	if nav.Snapshot().Active().History().Len() != 2 {
		t.Fatalf("refresh altered history")
	}

	_ = nav.ReportDisplayError("again", "")
	if nav.Snapshot().Active().Title() != "Blocked" {
		t.Fatalf("empty override should keep title")
	}
	nav.Navigate("other.test")
	if nav.Snapshot().Active().LoadError() != nil {
		t.Fatalf("navigate did not clear load error")
	}
}

func TestNavigatorBackClearsLeftEntryError(t *testing.T) {
	nav, display := newTestNavigator(t)
	nav.Navigate("a.test")
	nav.Navigate("b.test")
	_ = nav.ReportDisplayError("refused", "Blocked")

	if err := nav.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	tab := nav.Snapshot().Active()
	if tab.URL() != "https://a.test" || tab.LoadError() != nil {
		t.Fatalf("url=%q err=%v", tab.URL(), tab.LoadError())
	}
	if tab.Title() != "a.test" {
		t.Fatalf("title = %q, want derived title", tab.Title())
	}
	if got := display.last(); got != (displayCall{"load", tab.ID(), "https://a.test"}) {
		t.Fatalf("display call = %+v", got)
	}

	_ = nav.ReportDisplayError("refused", "")
	if err := nav.Forward(); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if le := nav.Snapshot().Active().LoadError(); le != nil {
		t.Fatalf("forward kept load error %v", le)
	}
}

func TestNavigatorLoadSuccess(t *testing.T) {
	nav, _ := newTestNavigator(t)
	nav.Navigate("example.com")
	if got := nav.Snapshot().Active().Title(); got != "example.com" {
		t.Fatalf("provisional title = %q", got)
	}

	_ = nav.ReportDisplayError("boom", "")
	if err := nav.ReportLoadSuccess("Example Domain"); err != nil {
		t.Fatalf("report success: %v", err)
	}
	tab := nav.Snapshot().Active()
	if tab.Title() != "Example Domain" || tab.LoadError() != nil {
		t.Fatalf("title=%q err=%v", tab.Title(), tab.LoadError())
	}

	if err := nav.ReportLoadSuccess(""); err != nil {
		t.Fatalf("report success: %v", err)
	}
	if got := nav.Snapshot().Active().Title(); got != "example.com" {
		t.Fatalf("derived title = %q", got)
	}

	nav.OpenTab()
	_ = nav.ReportLoadSuccess("")
	if got := nav.Snapshot().Active().Title(); got != NewTabTitle {
		t.Fatalf("blank title = %q", got)
	}
}

func TestNavigatorIgnoresStaleAndOrphanReports(t *testing.T) {
	nav, _ := newTestNavigator(t)
	nav.Navigate("first.test")
	id := nav.Snapshot().ActiveID()
	nav.Navigate("second.test")

	before := nav.Snapshot()
	err := nav.ReportDisplayErrorFor(id, "https://first.test", "late failure", "")
	if !errors.Is(err, ErrStaleReport) {
		t.Fatalf("stale err = %v", err)
	}
	if nav.Snapshot() != before {
		t.Fatalf("stale report changed state")
	}

	other := nav.OpenTab()
	_ = nav.CloseTab(other)
	err = nav.ReportLoadSuccessFor(other, "", "gone")
	if !errors.Is(err, ErrTabNotFound) || !IsRecoverable(err) {
		t.Fatalf("orphan err = %v", err)
	}

	// A background tab may finish loading while another is active.
	bg := nav.Snapshot().ActiveID()
	nav.OpenTab()
	if err := nav.ReportLoadSuccessFor(bg, "https://second.test", "Second"); err != nil {
		t.Fatalf("background report: %v", err)
	}
	tab, _ := nav.Snapshot().Tab(bg)
	if tab.Title() != "Second" {
		t.Fatalf("background title = %q", tab.Title())
	}
}

func TestNavigatorUnknownTabsAreNoOps(t *testing.T) {
	nav, _ := newTestNavigator(t)
	nav.OpenTab()
	before := nav.Snapshot()

	if err := nav.SelectTab("missing"); !errors.Is(err, ErrTabNotFound) {
		t.Fatalf("select err = %v", err)
	}
	if err := nav.CloseTab("missing"); !errors.Is(err, ErrTabNotFound) {
		t.Fatalf("close err = %v", err)
	}
	if nav.Snapshot() != before {
		t.Fatalf("unknown ids changed state")
	}
}

func TestNavigatorCloseOnlyTab(t *testing.T) {
	nav, _ := newTestNavigator(t)
	nav.Navigate("example.com")
	only := nav.Snapshot().ActiveID()
	if err := nav.CloseTab(only); err != nil {
		t.Fatalf("close: %v", err)
	}
	s := nav.Snapshot()
	checkInvariants(t, s)
	if s.Len() != 1 || s.ActiveID() == only {
		t.Fatalf("tabs=%v active=%q", ids(s.Tabs()), s.ActiveID())
	}
	if s.Active().History().Len() != 1 {
		t.Fatalf("replacement history len = %d", s.Active().History().Len())
	}
}

func TestNavigatorTabCycling(t *testing.T) {
	nav, _ := newTestNavigator(t)
	nav.OpenTab()
	nav.OpenTab()
	nav.NextTab()
	if got := nav.Snapshot().ActiveID(); got != "t0" {
		t.Fatalf("next wrap = %q", got)
	}
	nav.PrevTab()
	if got := nav.Snapshot().ActiveID(); got != "t2" {
		t.Fatalf("prev wrap = %q", got)
	}
}

func TestNavigatorNotifiesObservers(t *testing.T) {
	nav, _ := newTestNavigator(t)
	var seen []*State
	nav.Subscribe(func(s *State) { seen = append(seen, s) })

	nav.Navigate("a.test")
	_ = nav.Back()
	_ = nav.Back() // boundary, no notification
	_ = nav.SelectTab("missing")

	if len(seen) != 2 {
		t.Fatalf("observer calls = %d, want 2", len(seen))
	}
	if seen[len(seen)-1] != nav.Snapshot() {
		t.Fatalf("observer did not see the latest snapshot")
	}
}

func TestNavigatorLogsWithTabField(t *testing.T) {
	var buf bytes.Buffer
	logger := pslog.NewWithOptions(&buf, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.DebugLevel,
		VerboseFields: true,
	})
	ctx := pslog.ContextWithLogger(context.Background(), logger)
	nav := NewNavigator(ctx, nil, seqIDs())

	nav.Navigate("example.com")
	found := false
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		entry := map[string]any{}
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("parse log entry %q: %v", line, err)
		}
		if entry["tab"] == "t0" && entry["url"] == "https://example.com" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected navigate entry with tab and url fields in %s", buf.String())
	}
}
