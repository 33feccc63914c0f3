package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// PageViewport wraps bubbles/viewport for the active tab's page.
type PageViewport struct {
	viewport viewport.Model
	ready    bool
}

// NewPageViewport creates a viewport; dimensions arrive with the first
// WindowSizeMsg.
func NewPageViewport() PageViewport {
	return PageViewport{}
}

// SetSize updates the viewport dimensions.
func (pv *PageViewport) SetSize(width, height int) {
	if !pv.ready {
		pv.viewport = viewport.New(width, height)
		pv.viewport.MouseWheelEnabled = true
		pv.viewport.MouseWheelDelta = 3
		pv.ready = true
		return
	}
	pv.viewport.Width = width
	pv.viewport.Height = height
}

// SetContent replaces the content and scrolls to offset.
func (pv *PageViewport) SetContent(content string, offset int) {
	if !pv.ready {
		return
	}
	pv.viewport.SetContent(content)
	pv.viewport.SetYOffset(offset)
}

// Update forwards messages to the viewport.
func (pv *PageViewport) Update(msg tea.Msg) (*PageViewport, tea.Cmd) {
	if !pv.ready {
		return pv, nil
	}
	var cmd tea.Cmd
	pv.viewport, cmd = pv.viewport.Update(msg)
	return pv, cmd
}

// View renders the visible part of the page.
func (pv *PageViewport) View() string {
	if !pv.ready {
		return ""
	}
	return pv.viewport.View()
}

// ScrollInfo returns "TOP", "BOT" or a percentage.
func (pv *PageViewport) ScrollInfo() string {
	if !pv.ready {
		return "TOP"
	}
	switch pct := pv.viewport.ScrollPercent(); {
	case pv.viewport.AtTop():
		return "TOP"
	case pct >= 1:
		return "BOT"
	default:
		return fmt.Sprintf("%d%%", int(pct*100))
	}
}

// YOffset is the current scroll position, saved per tab.
func (pv *PageViewport) YOffset() int {
	if !pv.ready {
		return 0
	}
	return pv.viewport.YOffset
}

func (pv *PageViewport) LineDown(n int) {
	if pv.ready {
		pv.viewport.LineDown(n)
	}
}

func (pv *PageViewport) LineUp(n int) {
	if pv.ready {
		pv.viewport.LineUp(n)
	}
}

func (pv *PageViewport) HalfPageDown() {
	if pv.ready {
		pv.viewport.HalfViewDown()
	}
}

func (pv *PageViewport) HalfPageUp() {
	if pv.ready {
		pv.viewport.HalfViewUp()
	}
}

func (pv *PageViewport) GotoTop() {
	if pv.ready {
		pv.viewport.GotoTop()
	}
}

func (pv *PageViewport) GotoBottom() {
	if pv.ready {
		pv.viewport.GotoBottom()
	}
}

// Width returns the viewport width.
func (pv *PageViewport) Width() int {
	if !pv.ready {
		return 0
	}
	return pv.viewport.Width
}
