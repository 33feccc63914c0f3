package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/surftabs/internal/tabs"
	"github.com/vidyasagar/surftabs/internal/theme"
)

const logo = `
   ___ _  _ _ _ / _| |_ __ _| |__  ___
  (_-<| || | '_|  _|  _/ _' | '_ \(_-<
  /__/ \_,_|_| |_|  \__\__,_|_.__//__/
`

// WelcomePage is shown for blank destinations. Shortcuts become numbered
// tiles that can be followed like links.
func WelcomePage(shortcuts []Link) *Page {
	t := theme.Current

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Secondary)
	textStyle := lipgloss.NewStyle().Foreground(t.Text)
	indexStyle := lipgloss.NewStyle().Foreground(t.LinkIndex)

	page := &Page{Title: tabs.NewTabTitle}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("  Tabbed browsing in the terminal"))
	sb.WriteString("\n\n")

	if len(shortcuts) > 0 {
		sb.WriteString(accentStyle.Render("  Bookmarks"))
		sb.WriteString("\n\n")
		for i, s := range shortcuts {
			link := Link{Index: i + 1, Text: s.Text, URL: s.URL}
			page.Links = append(page.Links, link)
			label := link.Text
			if label == "" {
				label = link.URL
			}
			sb.WriteString(indexStyle.Render(fmt.Sprintf("  [%d] ", link.Index)))
			sb.WriteString(textStyle.Render(label))
			if label != link.URL {
				sb.WriteString(dimStyle.Render("  " + link.URL))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(accentStyle.Render("  Keys"))
	sb.WriteString("\n\n")
	keys := []struct{ key, desc string }{
		{"o", "Open URL"},
		{"f", "Follow link by number"},
		{"H / L", "Back / forward"},
		{"r", "Refresh"},
		{"j / k", "Scroll down / up"},
		{"gt / gT", "Next / previous tab"},
		{"Ctrl+t", "New tab"},
		{"Ctrl+w", "Close tab"},
		{"b / B", "Bookmark page / bookmarks"},
		{":", "Command mode"},
		{"q", "Quit"},
	}
	for _, k := range keys {
		sb.WriteString(keyStyle.Render(fmt.Sprintf("    %-12s", k.key)))
		sb.WriteString(textStyle.Render(k.desc))
		sb.WriteString("\n")
	}

	page.Content = sb.String()
	return page
}
