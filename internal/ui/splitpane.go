package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/surftabs/internal/theme"
)

// SplitPane lays a side panel out next to the page.
type SplitPane struct {
	Ratio  float64 // share of the width given to the side panel
	open   bool
	width  int
	height int
}

// NewSplitPane creates a closed split with the panel taking a third.
func NewSplitPane() SplitPane {
	return SplitPane{Ratio: 0.34}
}

// SetSize updates the total area.
func (sp *SplitPane) SetSize(w, h int) {
	sp.width = w
	sp.height = h
}

func (sp *SplitPane) Open()        { sp.open = true }
func (sp *SplitPane) Close()       { sp.open = false }
func (sp *SplitPane) IsOpen() bool { return sp.open }

// PanelWidth is the side panel's width, zero while closed.
func (sp *SplitPane) PanelWidth() int {
	if !sp.open {
		return 0
	}
	w := int(float64(sp.width) * sp.Ratio)
	if w < 24 {
		w = min(24, sp.width/2)
	}
	return w
}

// MainWidth is what remains for the page after the panel and divider.
func (sp *SplitPane) MainWidth() int {
	if !sp.open {
		return sp.width
	}
	return max(sp.width-sp.PanelWidth()-1, 0)
}

// Render joins panel and page with a divider, or returns page while closed.
func (sp *SplitPane) Render(panel, page string) string {
	if !sp.open {
		return page
	}
	divider := lipgloss.NewStyle().
		Foreground(theme.Current.Border).
		Render(strings.TrimSuffix(strings.Repeat("│\n", max(sp.height, 1)), "\n"))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(sp.PanelWidth()).Height(sp.height).Render(panel),
		divider,
		lipgloss.NewStyle().Width(sp.MainWidth()).Height(sp.height).Render(page),
	)
}
