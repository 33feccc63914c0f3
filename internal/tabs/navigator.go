package tabs

import (
	"context"
	"errors"

	"github.com/vidyasagar/surftabs/internal/logx"
	"pkt.systems/pslog"
)

// Display is the content surface the navigator delegates rendering to.
// Implementations report back through ReportLoadSuccessFor and
// ReportDisplayErrorFor, or never at all.
type Display interface {
	Load(id TabID, d Destination)
	Reload(id TabID, d Destination)
}

type nopDisplay struct{}

func (nopDisplay) Load(TabID, Destination)   {}
func (nopDisplay) Reload(TabID, Destination) {}

// Observer receives every new snapshot after a transition.
type Observer func(*State)

// Navigator is the single writer of browser state. It is not safe for
// concurrent use; snapshots it hands out are.
type Navigator struct {
	ctx       context.Context
	state     *State
	display   Display
	observers []Observer
}

// NewNavigator returns a navigator over a fresh one-tab state. A nil display
// disables side effects. Logging uses the pslog logger bound to ctx.
func NewNavigator(ctx context.Context, display Display, opts ...StateOption) *Navigator {
	if ctx == nil {
		ctx = context.Background()
	}
	if display == nil {
		display = nopDisplay{}
	}
	return &Navigator{
		ctx:     ctx,
		state:   NewState(opts...),
		display: display,
	}
}

// Snapshot returns the current state.
func (n *Navigator) Snapshot() *State { return n.state }

// Subscribe registers an observer for future snapshots.
func (n *Navigator) Subscribe(o Observer) {
	if o != nil {
		n.observers = append(n.observers, o)
	}
}

func (n *Navigator) log(id TabID) pslog.Logger {
	return logx.WithTab(n.ctx, logx.Ctx(n.ctx), string(id))
}

func (n *Navigator) commit(next *State) {
	if next == n.state {
		return
	}
	n.state = next
	for _, o := range n.observers {
		o(next)
	}
}

// recovered logs errors the navigator absorbs as no-ops and passes them on.
func (n *Navigator) recovered(op string, id TabID, err error) error {
	if err != nil {
		n.log(id).Debug("tab command ignored", "op", op, "reason", err.Error())
	}
	return err
}

// Navigate loads raw in the active tab.
func (n *Navigator) Navigate(raw string) Destination {
	next, d := Navigate(n.state, raw)
	id := next.ActiveID()
	logx.WithURL(n.log(id), d.URL).Debug("navigate", "kind", d.Kind.String())
	n.commit(next)
	n.display.Load(id, d)
	return d
}

// Back moves the active tab back. ErrAtBoundary leaves the state unchanged.
func (n *Navigator) Back() error {
	return n.step("back", Back)
}

// Forward moves the active tab forward. ErrAtBoundary leaves the state unchanged.
func (n *Navigator) Forward() error {
	return n.step("forward", Forward)
}

func (n *Navigator) step(op string, move func(*State) (*State, error)) error {
	id := n.state.ActiveID()
	next, err := move(n.state)
	if err != nil {
		return n.recovered(op, id, err)
	}
	d := next.Active().Current()
	logx.WithURL(n.log(id), d.URL).Debug(op)
	n.commit(next)
	n.display.Load(id, d)
	return nil
}

// Refresh clears the active tab's load error and asks the display to reload.
func (n *Navigator) Refresh() {
	next, d := Refresh(n.state)
	id := next.ActiveID()
	logx.WithURL(n.log(id), d.URL).Debug("refresh")
	n.commit(next)
	n.display.Reload(id, d)
}

// ReportLoadSuccess records a successful load for the active tab.
func (n *Navigator) ReportLoadSuccess(title string) error {
	t := n.state.Active()
	return n.ReportLoadSuccessFor(t.ID(), t.URL(), title)
}

// ReportLoadSuccessFor records that url finished loading in tab id.
// Reports for closed tabs or abandoned destinations are ignored.
func (n *Navigator) ReportLoadSuccessFor(id TabID, url, title string) error {
	next, err := ReportLoadSuccessFor(n.state, id, url, title)
	if err != nil {
		return n.recovered("load_succeeded", id, err)
	}
	logx.WithURL(n.log(id), url).Debug("load succeeded", "title", title)
	n.commit(next)
	return nil
}

// ReportDisplayError records a display refusal for the active tab.
func (n *Navigator) ReportDisplayError(message, titleOverride string) error {
	t := n.state.Active()
	return n.ReportDisplayErrorFor(t.ID(), t.URL(), message, titleOverride)
}

// ReportDisplayErrorFor records that the display refused url in tab id.
func (n *Navigator) ReportDisplayErrorFor(id TabID, url, message, titleOverride string) error {
	next, err := ReportDisplayErrorFor(n.state, id, url, message, titleOverride)
	if err != nil {
		return n.recovered("load_failed", id, err)
	}
	logx.WithURL(n.log(id), url).Info("display refused", "reason", message)
	n.commit(next)
	return nil
}

// OpenTab appends a fresh tab, activates it and returns its id.
func (n *Navigator) OpenTab() TabID {
	next := n.state.AddTab()
	id := next.ActiveID()
	n.log(id).Debug("tab opened", "tabs", next.Len())
	n.commit(next)
	return id
}

// CloseTab removes tab id. ErrTabNotFound leaves the state unchanged.
func (n *Navigator) CloseTab(id TabID) error {
	next, err := n.state.CloseTab(id)
	if err != nil {
		return n.recovered("close", id, err)
	}
	n.log(id).Debug("tab closed", "tabs", next.Len(), "active", string(next.ActiveID()))
	n.commit(next)
	return nil
}

// SelectTab activates tab id. ErrTabNotFound leaves the state unchanged.
func (n *Navigator) SelectTab(id TabID) error {
	next, err := n.state.SelectTab(id)
	if err != nil {
		return n.recovered("select", id, err)
	}
	n.commit(next)
	return nil
}

// NextTab activates the tab after the active one, wrapping around.
func (n *Navigator) NextTab() {
	n.commit(n.state.SelectOffset(1))
}

// PrevTab activates the tab before the active one, wrapping around.
func (n *Navigator) PrevTab() {
	n.commit(n.state.SelectOffset(-1))
}

// IsRecoverable reports whether err is one of the no-op outcomes the
// navigator produces.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrAtBoundary) ||
		errors.Is(err, ErrTabNotFound) ||
		errors.Is(err, ErrStaleReport)
}
