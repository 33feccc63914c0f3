package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidyasagar/surftabs/internal/browser"
	"github.com/vidyasagar/surftabs/internal/logx"
	"github.com/vidyasagar/surftabs/internal/tabs"
)

// Surface renders destinations into pages.
type Surface interface {
	Load(ctx context.Context, req browser.Request) (*browser.Page, error)
}

// pageLoadedMsg carries the outcome of one surface load back into Update.
type pageLoadedMsg struct {
	tabID tabs.TabID
	seq   uint64
	url   string
	page  *browser.Page
	err   error
}

// teaDisplay adapts a Surface to tabs.Display. Loads requested by the
// navigator are queued as tea.Cmds and handed to the runtime after each
// Update through drain.
type teaDisplay struct {
	ctx      context.Context
	surface  Surface
	width    int
	pending  []tea.Cmd
	seq      uint64
	inflight map[tabs.TabID]inflight
}

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// noSurface refuses everything; it stands in when no surface is wired.
type noSurface struct{}

func (noSurface) Load(_ context.Context, req browser.Request) (*browser.Page, error) {
	return nil, &browser.RefusedError{URL: req.Destination.URL, Reason: "no display surface"}
}

func newTeaDisplay(ctx context.Context, surface Surface) *teaDisplay {
	if surface == nil {
		surface = noSurface{}
	}
	return &teaDisplay{
		ctx:      ctx,
		surface:  surface,
		inflight: make(map[tabs.TabID]inflight),
	}
}

func (d *teaDisplay) Load(id tabs.TabID, dest tabs.Destination) {
	d.queue(id, dest, false)
}

func (d *teaDisplay) Reload(id tabs.TabID, dest tabs.Destination) {
	d.queue(id, dest, true)
}

// queue replaces any load already running for the tab.
func (d *teaDisplay) queue(id tabs.TabID, dest tabs.Destination, fresh bool) {
	d.cancel(id)
	tabLog := logx.WithURL(logx.WithTab(d.ctx, logx.Ctx(d.ctx), string(id)), dest.URL)
	ctx, cancel := context.WithCancel(logx.ContextWithTabLogger(d.ctx, tabLog, string(id)))
	d.seq++
	seq := d.seq
	d.inflight[id] = inflight{seq: seq, cancel: cancel}

	surface := d.surface
	req := browser.Request{Destination: dest, Width: d.width, Fresh: fresh}
	d.pending = append(d.pending, func() tea.Msg {
		page, err := surface.Load(ctx, req)
		if err != nil && ctx.Err() == nil {
			logx.WithTab(ctx, logx.Ctx(ctx), string(id)).Debug("load failed", "err", err.Error())
		}
		return pageLoadedMsg{tabID: id, seq: seq, url: dest.URL, page: page, err: err}
	})
}

// cancel aborts the tab's running load, if any.
func (d *teaDisplay) cancel(id tabs.TabID) {
	if f, ok := d.inflight[id]; ok {
		f.cancel()
		delete(d.inflight, id)
	}
}

// done clears the in-flight marker and reports whether msg answers the
// latest request for its tab. Superseded and cancelled loads return false.
func (d *teaDisplay) done(msg pageLoadedMsg) bool {
	f, ok := d.inflight[msg.tabID]
	if !ok || f.seq != msg.seq {
		return false
	}
	f.cancel()
	delete(d.inflight, msg.tabID)
	return true
}

// Loading reports whether a load is running for the tab.
func (d *teaDisplay) Loading(id tabs.TabID) bool {
	_, ok := d.inflight[id]
	return ok
}

// drain returns the queued loads as one command.
func (d *teaDisplay) drain() tea.Cmd {
	if len(d.pending) == 0 {
		return nil
	}
	cmds := d.pending
	d.pending = nil
	return tea.Batch(cmds...)
}
