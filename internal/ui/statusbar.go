package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/surftabs/internal/theme"
)

// Mode names shown at the left of the status bar.
const (
	ModeNormal    = "NORMAL"
	ModeInsert    = "INSERT"
	ModeCommand   = "COMMAND"
	ModeFollow    = "FOLLOW"
	ModeBookmarks = "BOOKMARKS"
	ModeHelp      = "HELP"
)

// StatusBar shows the current page info at the bottom of the screen.
type StatusBar struct {
	mode       string
	title      string
	notice     string // load error of the active tab; persists until cleared
	message    string // transient feedback, cleared on the next key
	loading    bool
	canBack    bool
	canForward bool
	linkCount  int
	scrollInfo string
	width      int
}

// NewStatusBar creates a status bar in normal mode.
func NewStatusBar() StatusBar {
	return StatusBar{mode: ModeNormal, scrollInfo: "TOP"}
}

func (s *StatusBar) SetWidth(w int)            { s.width = w }
func (s *StatusBar) SetMode(mode string)       { s.mode = mode }
func (s *StatusBar) SetTitle(title string)     { s.title = title }
func (s *StatusBar) SetNotice(notice string)   { s.notice = notice }
func (s *StatusBar) SetMessage(msg string)     { s.message = msg }
func (s *StatusBar) SetLoading(loading bool)   { s.loading = loading }
func (s *StatusBar) SetLinkCount(n int)        { s.linkCount = n }
func (s *StatusBar) SetScrollInfo(info string) { s.scrollInfo = info }

// SetNav records whether back and forward are available.
func (s *StatusBar) SetNav(back, forward bool) {
	s.canBack, s.canForward = back, forward
}

// Mode returns the displayed mode.
func (s *StatusBar) Mode() string { return s.mode }

// Message returns the transient message, if any.
func (s *StatusBar) Message() string { return s.message }

func (s *StatusBar) modeStyle() lipgloss.Style {
	t := theme.Current
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(t.Background)
	switch s.mode {
	case ModeNormal:
		return style.Background(t.Primary)
	case ModeInsert:
		return style.Background(t.Success)
	case ModeCommand:
		return style.Background(t.Accent)
	case ModeFollow:
		return style.Background(t.Link)
	default:
		return style.Background(t.Secondary)
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := theme.Current
	surface := lipgloss.NewStyle().Background(t.Surface).Padding(0, 1)

	mode := s.modeStyle().Render(s.mode)

	var left string
	switch {
	case s.loading:
		left = surface.Foreground(t.Warning).Bold(true).Render("Loading...")
	case s.message != "":
		left = surface.Foreground(t.Secondary).Render(s.message)
	case s.notice != "":
		left = surface.Foreground(t.Error).Bold(true).Render(s.notice)
	case s.title != "":
		left = surface.Foreground(t.Text).Render(s.title)
	}

	on := surface.Foreground(t.Text)
	off := surface.Foreground(t.TextDim)
	nav := off.Render("<")
	if s.canBack {
		nav = on.Render("<")
	}
	if s.canForward {
		nav += on.Render(">")
	} else {
		nav += off.Render(">")
	}

	right := nav
	if s.linkCount > 0 {
		right += surface.Foreground(t.TextDim).Render(fmt.Sprintf("%d links", s.linkCount))
	}
	right += surface.Foreground(t.Secondary).Bold(true).Render(s.scrollInfo)

	// Clip the left side before the right side so position info stays visible.
	room := s.width - lipgloss.Width(mode) - lipgloss.Width(right)
	if lipgloss.Width(left) > room {
		left = Truncate(left, room)
	}
	spacer := room - lipgloss.Width(left)
	if spacer < 0 {
		spacer = 0
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(fmt.Sprintf("%*s", spacer, ""))

	return lipgloss.NewStyle().Foreground(t.Text).Background(t.Surface).Render(mode + left + fill + right)
}
