package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/surftabs/internal/theme"
)

// HelpGroup is a titled column of key bindings.
type HelpGroup struct {
	Name     string
	Bindings []key.Binding
}

// HelpPanel is a popup listing the key bindings, one column per group.
type HelpPanel struct {
	groups  []HelpGroup
	visible bool
}

// NewHelpPanel creates a hidden panel for groups.
func NewHelpPanel(groups []HelpGroup) HelpPanel {
	return HelpPanel{groups: groups}
}

func (hp *HelpPanel) Show()           { hp.visible = true }
func (hp *HelpPanel) Hide()           { hp.visible = false }
func (hp *HelpPanel) IsVisible() bool { return hp.visible }

// View renders the panel as a bordered box.
func (hp *HelpPanel) View() string {
	if !hp.visible {
		return ""
	}
	t := theme.Current

	groupStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Underline(true)
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Width(10)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)
	sep := lipgloss.NewStyle().Foreground(t.Border)

	rows := 0
	for _, g := range hp.groups {
		rows = max(rows, len(g.Bindings))
	}

	var columns []string
	for i, g := range hp.groups {
		lines := []string{groupStyle.Render(g.Name), ""}
		for _, b := range g.Bindings {
			h := b.Help()
			lines = append(lines, keyStyle.Render(h.Key)+descStyle.Render(h.Desc))
		}
		for j := len(g.Bindings); j < rows; j++ {
			lines = append(lines, "")
		}
		col := lipgloss.NewStyle().Width(26).Render(strings.Join(lines, "\n"))
		columns = append(columns, col)
		if i < len(hp.groups)-1 {
			bar := strings.TrimSuffix(strings.Repeat(" │ \n", lipgloss.Height(col)), "\n")
			columns = append(columns, sep.Render(bar))
		}
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	rule := sep.Render(strings.Repeat("─", lipgloss.Width(body)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render("Keys"),
		rule,
		"",
		body,
		"",
		lipgloss.NewStyle().Foreground(t.TextDim).Italic(true).Render("Esc or ? to close"),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(content)
}
