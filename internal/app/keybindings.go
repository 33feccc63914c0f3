package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/vidyasagar/surftabs/internal/ui"
)

// KeyMap defines all normal-mode keybindings.
type KeyMap struct {
	ScrollDown   key.Binding
	ScrollUp     key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	GotoTop      key.Binding
	GotoBottom   key.Binding

	OpenURL    key.Binding
	Back       key.Binding
	Forward    key.Binding
	Refresh    key.Binding
	FollowLink key.Binding

	NewTab   key.Binding
	CloseTab key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding

	Bookmark  key.Binding
	Bookmarks key.Binding

	CommandMode key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default vim-style keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "scroll down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "scroll up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("Ctrl+d", "half page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("Ctrl+u", "half page up"),
		),
		// g is a prefix; gg, gt and gT are resolved in the model.
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "top of page"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom of page"),
		),
		OpenURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open URL"),
		),
		Back: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "forward"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		FollowLink: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow link"),
		),
		NewTab: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("Ctrl+t", "new tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("Ctrl+w", "close tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("gt/Tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("gT/S-Tab", "previous tab"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmark page"),
		),
		Bookmarks: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "bookmarks"),
		),
		CommandMode: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HelpGroups arranges the bindings for the help panel.
func (k KeyMap) HelpGroups() []ui.HelpGroup {
	return []ui.HelpGroup{
		{Name: "Page", Bindings: []key.Binding{k.ScrollDown, k.ScrollUp, k.HalfPageDown, k.HalfPageUp, k.GotoTop, k.GotoBottom}},
		{Name: "Navigate", Bindings: []key.Binding{k.OpenURL, k.Back, k.Forward, k.Refresh, k.FollowLink}},
		{Name: "Tabs", Bindings: []key.Binding{k.NewTab, k.CloseTab, k.NextTab, k.PrevTab}},
		{Name: "Other", Bindings: []key.Binding{k.Bookmark, k.Bookmarks, k.CommandMode, k.Help, k.Quit}},
	}
}
