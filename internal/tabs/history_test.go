package tabs

import (
	"errors"
	"testing"
)

func web(url string) Destination {
	return Destination{URL: url, Kind: KindWeb}
}

func TestNewHistoryStartsBlank(t *testing.T) {
	h := NewHistory()
	if h.Len() != 1 || h.Cursor() != 0 {
		t.Fatalf("len=%d cursor=%d, want 1/0", h.Len(), h.Cursor())
	}
	if !h.Current().IsBlank() {
		t.Fatalf("current = %+v, want blank", h.Current())
	}
	if h.CanGoBack() || h.CanGoForward() {
		t.Fatalf("fresh history should not move")
	}
}

func TestZeroHistoryBehavesLikeNew(t *testing.T) {
	var h History
	if h.Len() != 1 || !h.Current().IsBlank() {
		t.Fatalf("zero history len=%d current=%+v", h.Len(), h.Current())
	}
	if _, err := h.Back(); !errors.Is(err, ErrAtBoundary) {
		t.Fatalf("Back on zero history err = %v, want ErrAtBoundary", err)
	}
	h = h.Push(web("https://a.test"))
	if h.Len() != 2 || h.Cursor() != 1 {
		t.Fatalf("after push len=%d cursor=%d", h.Len(), h.Cursor())
	}
}

func TestPushKeepsCursorAtEnd(t *testing.T) {
	urls := []string{"https://a.test", "https://b.test", "https://a.test", "https://a.test"}
	h := NewHistory()
	for i, u := range urls {
		h = h.Push(web(u))
		if h.Cursor() != h.Len()-1 {
			t.Fatalf("push %d: cursor=%d len=%d", i, h.Cursor(), h.Len())
		}
		entries := h.Entries()
		for j := 0; j <= i; j++ {
			if entries[j+1].URL != urls[j] {
				t.Fatalf("push %d: entries[%d]=%q want %q", i, j+1, entries[j+1].URL, urls[j])
			}
		}
	}
	if h.Len() != len(urls)+1 {
		t.Fatalf("duplicates must be kept: len=%d", h.Len())
	}
}

func TestBackForwardRoundTrip(t *testing.T) {
	h := NewHistory().Push(web("https://a.test")).Push(web("https://b.test"))
	before := h.Current()

	back, err := h.Back()
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	fwd, err := back.Forward()
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if fwd.Current() != before {
		t.Fatalf("round trip current = %+v, want %+v", fwd.Current(), before)
	}
}

func TestBoundariesLeaveHistoryUnchanged(t *testing.T) {
	h := NewHistory().Push(web("https://a.test"))

	got, err := h.Forward()
	if !errors.Is(err, ErrAtBoundary) {
		t.Fatalf("forward at end err = %v", err)
	}
	if got.Cursor() != h.Cursor() || got.Current() != h.Current() {
		t.Fatalf("forward at end moved the cursor")
	}

	root, _ := h.Back()
	got, err = root.Back()
	if !errors.Is(err, ErrAtBoundary) {
		t.Fatalf("back at root err = %v", err)
	}
	if got.Cursor() != 0 {
		t.Fatalf("back at root cursor = %d", got.Cursor())
	}
}

func TestPushAfterBackDiscardsForwardBranch(t *testing.T) {
	h := NewHistory().Push(web("A")).Push(web("B")).Push(web("C"))
	h, err := h.Back()
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if h.Current().URL != "B" {
		t.Fatalf("after back current = %q", h.Current().URL)
	}
	h = h.Push(web("D"))

	var got []string
	for _, e := range h.Entries()[1:] {
		got = append(got, e.URL)
	}
	want := []string{"A", "B", "D"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
	if h.Cursor() != 3 {
		t.Fatalf("cursor = %d, want 3", h.Cursor())
	}
	if _, err := h.Forward(); !errors.Is(err, ErrAtBoundary) {
		t.Fatalf("forward after branch err = %v", err)
	}
}

func TestPushDoesNotAliasPredecessor(t *testing.T) {
	base := NewHistory().Push(web("A")).Push(web("B"))
	back, _ := base.Back()
	_ = back.Push(web("X"))
	_ = back.Push(web("Y"))

	entries := base.Entries()
	if entries[2].URL != "B" {
		t.Fatalf("predecessor mutated: %+v", entries)
	}
	if base.Current().URL != "B" {
		t.Fatalf("predecessor cursor moved: %q", base.Current().URL)
	}
}
