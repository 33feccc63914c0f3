package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/surftabs/internal/theme"
)

// URLBar shows the active tab's address and doubles as the address input.
type URLBar struct {
	input   textinput.Model
	current string // address shown while the bar is not focused
	active  bool
	width   int
}

// NewURLBar creates a new URL bar.
func NewURLBar() URLBar {
	ti := textinput.New()
	ti.Placeholder = "Enter a URL"
	ti.Prompt = ""
	ti.CharLimit = 2048
	ti.Width = 60
	return URLBar{input: ti}
}

// SetWidth updates the URL bar width.
func (u *URLBar) SetWidth(w int) {
	u.width = w
	u.input.Width = w - 8
}

// Show sets the address displayed while the bar is idle.
func (u *URLBar) Show(url string) {
	u.current = url
}

// Focus activates the bar with the current address pre-filled.
func (u *URLBar) Focus() tea.Cmd {
	u.active = true
	u.input.SetValue(u.current)
	u.input.CursorEnd()
	return u.input.Focus()
}

// Blur deactivates the URL bar and discards the edit.
func (u *URLBar) Blur() {
	u.active = false
	u.input.Blur()
	u.input.Reset()
}

// IsActive reports whether the URL bar is focused.
func (u *URLBar) IsActive() bool {
	return u.active
}

// Value returns the text being edited.
func (u *URLBar) Value() string {
	return u.input.Value()
}

// Update handles messages for the URL bar.
func (u *URLBar) Update(msg tea.Msg) (*URLBar, tea.Cmd) {
	if !u.active {
		return u, nil
	}
	var cmd tea.Cmd
	u.input, cmd = u.input.Update(msg)
	return u, cmd
}

// View renders the URL bar.
func (u *URLBar) View() string {
	t := theme.Current

	border := t.Border
	fg := t.TextDim
	if u.active {
		border = t.BorderFocus
		fg = t.Text
	}
	barStyle := lipgloss.NewStyle().
		Foreground(fg).
		Background(t.Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(u.width - 2)

	prompt := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(">")

	body := u.input.View()
	if !u.active {
		body = u.current
		if body == "" {
			body = lipgloss.NewStyle().Foreground(t.TextDim).Render(u.input.Placeholder)
		}
		body = Truncate(body, u.width-8)
	}
	return barStyle.Render(prompt + " " + body)
}
