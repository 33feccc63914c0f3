package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/surftabs/internal/theme"
)

// CommandType identifies the kind of command bar interaction.
type CommandType int

const (
	CommandNone   CommandType = iota
	CommandEx                 // : commands
	CommandFollow             // f link follow
)

// CommandResult is emitted when a command is submitted.
type CommandResult struct {
	Type  CommandType
	Value string
}

// CommandBar handles : commands and numbered link following. Ex commands keep
// a recall history browsed with up and down.
type CommandBar struct {
	input      textinput.Model
	active     bool
	cmdType    CommandType
	width      int
	history    []string
	historyPos int
}

// NewCommandBar creates a new command bar.
func NewCommandBar() CommandBar {
	ti := textinput.New()
	ti.CharLimit = 256
	return CommandBar{input: ti, historyPos: -1}
}

// SetWidth sets the command bar width.
func (c *CommandBar) SetWidth(w int) {
	c.width = w
	c.input.Width = w - 4
}

// Open activates the command bar in the given mode.
func (c *CommandBar) Open(ct CommandType) tea.Cmd {
	c.active = true
	c.cmdType = ct
	c.input.Reset()
	c.historyPos = -1

	switch ct {
	case CommandEx:
		c.input.Placeholder = "open, tabnew, tabclose, bookmark, bookmarks, theme, quit"
		c.input.Prompt = ":"
	case CommandFollow:
		c.input.Placeholder = "link #"
		c.input.Prompt = "f "
	}
	return c.input.Focus()
}

// Close deactivates the command bar.
func (c *CommandBar) Close() {
	c.active = false
	c.cmdType = CommandNone
	c.input.Blur()
	c.input.Reset()
}

// IsActive reports whether the command bar is open.
func (c *CommandBar) IsActive() bool {
	return c.active
}

// Type returns the current command type.
func (c *CommandBar) Type() CommandType {
	return c.cmdType
}

// Submit returns the command result, records ex commands, and closes the bar.
func (c *CommandBar) Submit() CommandResult {
	val := strings.TrimSpace(c.input.Value())
	result := CommandResult{Type: c.cmdType, Value: val}
	if val != "" && c.cmdType == CommandEx {
		c.history = append(c.history, val)
	}
	c.Close()
	return result
}

// Update processes messages for the command bar. Enter is left to the caller.
func (c *CommandBar) Update(msg tea.Msg) (*CommandBar, tea.Cmd) {
	if !c.active {
		return c, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			c.Close()
			return c, nil
		case tea.KeyEnter:
			return c, nil
		case tea.KeyUp:
			c.recall(1)
			return c, nil
		case tea.KeyDown:
			c.recall(-1)
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// recall moves through ex history; dir 1 is older, -1 newer.
func (c *CommandBar) recall(dir int) {
	if c.cmdType != CommandEx || len(c.history) == 0 {
		return
	}
	pos := c.historyPos + dir
	switch {
	case pos >= len(c.history):
		pos = len(c.history) - 1
	case pos < 0:
		c.historyPos = -1
		c.input.Reset()
		return
	}
	c.historyPos = pos
	c.input.SetValue(c.history[len(c.history)-1-pos])
	c.input.CursorEnd()
}

// View renders the command bar.
func (c *CommandBar) View() string {
	if !c.active {
		return ""
	}
	t := theme.Current
	return lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Width(c.width).
		Render(c.input.View())
}
