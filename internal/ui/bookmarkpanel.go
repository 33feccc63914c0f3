package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/surftabs/internal/storage"
	"github.com/vidyasagar/surftabs/internal/theme"
)

// BookmarkPanel is a scrollable list of saved bookmarks.
type BookmarkPanel struct {
	entries []storage.Bookmark
	cursor  int
	offset  int // first visible entry
	width   int
	height  int
	visible bool
}

// NewBookmarkPanel creates an empty, hidden panel.
func NewBookmarkPanel() BookmarkPanel {
	return BookmarkPanel{}
}

// SetEntries replaces the listed bookmarks and resets the cursor.
func (bp *BookmarkPanel) SetEntries(entries []storage.Bookmark) {
	bp.entries = entries
	bp.cursor = 0
	bp.offset = 0
}

// Len returns the number of listed bookmarks.
func (bp *BookmarkPanel) Len() int {
	return len(bp.entries)
}

// SetSize updates the panel dimensions.
func (bp *BookmarkPanel) SetSize(w, h int) {
	bp.width = w
	bp.height = h
	bp.ensureVisible()
}

func (bp *BookmarkPanel) Show()           { bp.visible = true }
func (bp *BookmarkPanel) Hide()           { bp.visible = false }
func (bp *BookmarkPanel) IsVisible() bool { return bp.visible }

// CursorUp moves the cursor up one entry.
func (bp *BookmarkPanel) CursorUp() {
	if bp.cursor > 0 {
		bp.cursor--
		bp.ensureVisible()
	}
}

// CursorDown moves the cursor down one entry.
func (bp *BookmarkPanel) CursorDown() {
	if bp.cursor < len(bp.entries)-1 {
		bp.cursor++
		bp.ensureVisible()
	}
}

// GotoTop moves to the first entry.
func (bp *BookmarkPanel) GotoTop() {
	bp.cursor = 0
	bp.offset = 0
}

// GotoBottom moves to the last entry.
func (bp *BookmarkPanel) GotoBottom() {
	if len(bp.entries) > 0 {
		bp.cursor = len(bp.entries) - 1
		bp.ensureVisible()
	}
}

// Selected returns the entry under the cursor.
func (bp *BookmarkPanel) Selected() (storage.Bookmark, bool) {
	if bp.cursor < 0 || bp.cursor >= len(bp.entries) {
		return storage.Bookmark{}, false
	}
	return bp.entries[bp.cursor], true
}

// RemoveSelected drops the entry under the cursor from the list.
func (bp *BookmarkPanel) RemoveSelected() {
	if bp.cursor < 0 || bp.cursor >= len(bp.entries) {
		return
	}
	bp.entries = append(bp.entries[:bp.cursor:bp.cursor], bp.entries[bp.cursor+1:]...)
	if bp.cursor >= len(bp.entries) && bp.cursor > 0 {
		bp.cursor--
	}
	bp.ensureVisible()
}

// visibleCount is how many two-line entries fit below the two header lines
// and above the hint line.
func (bp *BookmarkPanel) visibleCount() int {
	n := (bp.height - 3) / 2
	if n < 1 {
		return 1
	}
	return n
}

func (bp *BookmarkPanel) ensureVisible() {
	visible := bp.visibleCount()
	if bp.cursor < bp.offset {
		bp.offset = bp.cursor
	}
	if bp.cursor >= bp.offset+visible {
		bp.offset = bp.cursor - visible + 1
	}
	if bp.offset < 0 {
		bp.offset = 0
	}
}

// View renders the panel.
func (bp *BookmarkPanel) View() string {
	if !bp.visible {
		return ""
	}
	t := theme.Current

	row := lipgloss.NewStyle().Width(bp.width).Padding(0, 1)
	titleStyle := row.Bold(true).Foreground(t.Primary).Background(t.Surface)
	selectedStyle := row.Foreground(t.TextBright).Background(t.TabActive).Bold(true)
	selectedURLStyle := row.Foreground(t.Link).Background(t.TabActive)
	normalStyle := row.Foreground(t.Text)
	urlStyle := row.Foreground(t.TextDim)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true).Padding(0, 1)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Bookmarks (%d)", len(bp.entries))))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", max(bp.width-2, 1))))
	sb.WriteString("\n")

	if len(bp.entries) == 0 {
		sb.WriteString(urlStyle.Render("No bookmarks yet. Press b on a page to add one."))
		sb.WriteString("\n")
	}

	end := min(bp.offset+bp.visibleCount(), len(bp.entries))
	textWidth := max(bp.width-6, 10)
	for i := bp.offset; i < end; i++ {
		b := bp.entries[i]
		title := Truncate(b.Label(), textWidth)
		detail := Truncate(b.URL, textWidth-10) + "  " + timeAgo(b.CreatedAt)
		if i == bp.cursor {
			sb.WriteString(selectedStyle.Render("▸ " + title))
			sb.WriteString("\n")
			sb.WriteString(selectedURLStyle.Render("  " + detail))
		} else {
			sb.WriteString(normalStyle.Render("  " + title))
			sb.WriteString("\n")
			sb.WriteString(urlStyle.Render("  " + detail))
		}
		sb.WriteString("\n")
	}

	used := 2 + max(end-bp.offset, 1)*2
	if pad := bp.height - used - 1; pad > 0 {
		sb.WriteString(strings.Repeat("\n", pad))
	}
	sb.WriteString(hintStyle.Render("j/k:move  Enter:open  d:delete  Esc:close"))

	return lipgloss.NewStyle().Width(bp.width).Height(bp.height).Render(sb.String())
}

// timeAgo returns a human-readable relative time string.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
