package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/vidyasagar/surftabs/internal/tabs"
	"github.com/vidyasagar/surftabs/internal/theme"
)

// maxTabs returns how many tabs fit in width.
func maxTabs(width int) int {
	n := width / 20
	if n < 2 {
		n = 2
	}
	if n > 10 {
		n = 10
	}
	return n
}

// visibleRange centres the active tab in a window of at most max tabs.
func visibleRange(total, active, max int) (start, end int) {
	if total <= max {
		return 0, total
	}
	start = active - max/2
	if start < 0 {
		start = 0
	}
	end = start + max
	if end > total {
		end = total
		start = end - max
	}
	return start, end
}

// Truncate shortens s to at most width cells, ending in "...".
func Truncate(s string, width int) string {
	if width <= 3 || lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "...")
}

// RenderTabBar draws the strip for s. It holds no state of its own; every
// frame is derived from the snapshot.
func RenderTabBar(s *tabs.State, width int) string {
	t := theme.Current

	activeStyle := lipgloss.NewStyle().
		Foreground(t.TextBright).
		Background(t.TabActive).
		Bold(true).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.TabInactive).
		Padding(0, 1)
	errorStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	separator := lipgloss.NewStyle().Foreground(t.Border).Render("|")
	overflow := lipgloss.NewStyle().Foreground(t.TextDim)

	all := s.Tabs()
	active := s.ActiveIndex()
	max := maxTabs(width)
	start, end := visibleRange(len(all), active, max)

	titleWidth := width/max - 6
	if titleWidth < 8 {
		titleWidth = 8
	}

	var sb strings.Builder
	if start > 0 {
		sb.WriteString(overflow.Render(fmt.Sprintf(" +%d ", start)))
	}
	for i := start; i < end; i++ {
		tab := all[i]
		label := Truncate(tab.Title(), titleWidth)
		if tab.LoadError() != nil {
			label = errorStyle.Render("!") + " " + label
		}
		if i == active {
			sb.WriteString(activeStyle.Render(label))
		} else {
			sb.WriteString(inactiveStyle.Render(label))
		}
		if i < end-1 {
			sb.WriteString(separator)
		}
	}
	if end < len(all) {
		sb.WriteString(overflow.Render(fmt.Sprintf(" +%d ", len(all)-end)))
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(sb.String())
}
