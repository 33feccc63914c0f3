// Package theme holds the colour palettes shared by the page renderer and the
// chrome around it.
package theme

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a resolved palette.
type Theme struct {
	Name string

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Text       lipgloss.Color
	TextDim    lipgloss.Color
	TextBright lipgloss.Color

	Background  lipgloss.Color
	Surface     lipgloss.Color
	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Link      lipgloss.Color
	LinkIndex lipgloss.Color
	Heading   lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	TabActive   lipgloss.Color
	TabInactive lipgloss.Color
}

// palette is the minimal set of colours a theme is built from; focus, active
// tab and warnings reuse primary and accent.
type palette struct {
	primary, secondary, accent string
	text, dim, bright          string
	bg, surface, border        string
	link, heading              string
	err, ok                    string
	inactive                   string
}

func build(name string, p palette) Theme {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	return Theme{
		Name:        name,
		Primary:     c(p.primary),
		Secondary:   c(p.secondary),
		Accent:      c(p.accent),
		Text:        c(p.text),
		TextDim:     c(p.dim),
		TextBright:  c(p.bright),
		Background:  c(p.bg),
		Surface:     c(p.surface),
		Border:      c(p.border),
		BorderFocus: c(p.primary),
		Link:        c(p.link),
		LinkIndex:   c(p.accent),
		Heading:     c(p.heading),
		Error:       c(p.err),
		Success:     c(p.ok),
		Warning:     c(p.accent),
		TabActive:   c(p.primary),
		TabInactive: c(p.inactive),
	}
}

// DefaultName is the theme used when none is configured.
const DefaultName = "default"

var themes = map[string]Theme{
	"default": build("default", palette{
		primary: "#7C3AED", secondary: "#06B6D4", accent: "#F59E0B",
		text: "#E2E8F0", dim: "#64748B", bright: "#F8FAFC",
		bg: "#0F172A", surface: "#1E293B", border: "#334155",
		link: "#38BDF8", heading: "#A78BFA",
		err: "#EF4444", ok: "#22C55E", inactive: "#475569",
	}),
	"gruvbox": build("gruvbox", palette{
		primary: "#D65D0E", secondary: "#458588", accent: "#FABD2F",
		text: "#EBDBB2", dim: "#928374", bright: "#FBF1C7",
		bg: "#282828", surface: "#3C3836", border: "#504945",
		link: "#83A598", heading: "#FB4934",
		err: "#FB4934", ok: "#B8BB26", inactive: "#665C54",
	}),
	"nord": build("nord", palette{
		primary: "#88C0D0", secondary: "#81A1C1", accent: "#EBCB8B",
		text: "#ECEFF4", dim: "#4C566A", bright: "#ECEFF4",
		bg: "#2E3440", surface: "#3B4252", border: "#434C5E",
		link: "#88C0D0", heading: "#81A1C1",
		err: "#BF616A", ok: "#A3BE8C", inactive: "#4C566A",
	}),
	"dracula": build("dracula", palette{
		primary: "#BD93F9", secondary: "#8BE9FD", accent: "#F1FA8C",
		text: "#F8F8F2", dim: "#6272A4", bright: "#F8F8F2",
		bg: "#282A36", surface: "#44475A", border: "#6272A4",
		link: "#8BE9FD", heading: "#FF79C6",
		err: "#FF5555", ok: "#50FA7B", inactive: "#6272A4",
	}),
	"tokyonight": build("tokyonight", palette{
		primary: "#7AA2F7", secondary: "#7DCFFF", accent: "#E0AF68",
		text: "#C0CAF5", dim: "#565F89", bright: "#C0CAF5",
		bg: "#1A1B26", surface: "#24283B", border: "#3B4261",
		link: "#7DCFFF", heading: "#BB9AF7",
		err: "#F7768E", ok: "#9ECE6A", inactive: "#3B4261",
	}),
}

// Current is the active theme. It is read by render code on every frame and
// only changed from the UI goroutine.
var Current = themes[DefaultName]

// Exists reports whether name is a known theme.
func Exists(name string) bool {
	_, ok := themes[name]
	return ok
}

// Set changes the active theme by name.
func Set(name string) error {
	t, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	Current = t
	return nil
}

// List returns the available theme names in sorted order.
func List() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
