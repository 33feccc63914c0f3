package browser

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/vidyasagar/surftabs/internal/theme"
)

const (
	defaultWidth = 80
	maxTextWidth = 100
)

// Cached glamour renderer; rebuilt only when the wrap width changes.
var (
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
	rendererMu          sync.Mutex
)

// Link is a numbered hyperlink found while rendering.
type Link struct {
	Index int
	Text  string
	URL   string
}

// Page is terminal-ready output for one destination.
type Page struct {
	URL     string
	Title   string
	Content string
	Links   []Link
}

// LinkByIndex returns the link numbered idx.
func (p *Page) LinkByIndex(idx int) (Link, bool) {
	for _, l := range p.Links {
		if l.Index == idx {
			return l, true
		}
	}
	return Link{}, false
}

func textWidth(width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	w := width - 4
	if w > maxTextWidth {
		w = maxTextWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Render converts an article to styled terminal text through markdown and
// glamour. It falls back to RenderFallback when glamour fails.
func Render(article *Article, width int) *Page {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return RenderFallback(article, width)
	}

	conv := newConverter(article.BaseURL)
	var md strings.Builder
	if article.Title != "" {
		md.WriteString("# " + article.Title + "\n\n")
	}
	if article.Byline != "" {
		md.WriteString("*" + strings.TrimSpace(article.Byline) + "*\n\n")
	}
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		md.WriteString(conv.block(s, 0))
	})

	out, err := renderMarkdown(md.String(), textWidth(width))
	if err != nil {
		return RenderFallback(article, width)
	}
	return &Page{Title: article.Title, Content: out, Links: conv.links}
}

func renderMarkdown(markdown string, width int) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	if cachedRenderer == nil || cachedRendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		cachedRenderer = r
		cachedRendererWidth = width
	}
	return cachedRenderer.Render(markdown)
}

// RenderFallback renders the article's plain text with lipgloss only.
// Links are still collected so follow-by-number keeps working.
func RenderFallback(article *Article, width int) *Page {
	t := theme.Current
	w := textWidth(width)

	var links []Link
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content)); err == nil {
		conv := newConverter(article.BaseURL)
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			conv.link(s)
		})
		links = conv.links
	}

	var sb strings.Builder
	if article.Title != "" {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(t.Heading).Render(article.Title))
		sb.WriteString("\n\n")
	}
	sb.WriteString(lipgloss.NewStyle().Foreground(t.Text).Render(wordwrap.String(article.TextContent, w)))
	if len(links) > 0 {
		sb.WriteString("\n\n")
		idx := lipgloss.NewStyle().Foreground(t.LinkIndex)
		link := lipgloss.NewStyle().Foreground(t.Link)
		for _, l := range links {
			sb.WriteString(idx.Render(fmt.Sprintf("[%d] ", l.Index)) + link.Render(l.Text) + "\n")
		}
	}
	return &Page{Title: article.Title, Content: sb.String(), Links: links}
}

// converter walks goquery nodes and emits markdown, numbering links.
type converter struct {
	base  *url.URL
	links []Link
}

func newConverter(base string) *converter {
	u, _ := url.Parse(base)
	return &converter{base: u}
}

func (c *converter) resolve(href string) string {
	if c.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.base.ResolveReference(ref).String()
}

func (c *converter) block(s *goquery.Selection, depth int) string {
	switch tag := goquery.NodeName(s); tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return ""
		}
		return strings.Repeat("#", int(tag[1]-'0')) + " " + text + "\n\n"
	case "p":
		return paragraph(c.inline(s))
	case "a":
		return paragraph(c.link(s))
	case "ul", "ol":
		return c.list(s, tag == "ol", depth)
	case "blockquote":
		var sb strings.Builder
		s.Children().Each(func(_ int, child *goquery.Selection) {
			for _, line := range strings.Split(strings.TrimRight(c.block(child, 0), "\n"), "\n") {
				sb.WriteString("> " + line + "\n")
			}
		})
		return sb.String() + "\n"
	case "pre":
		return codeBlock(s)
	case "hr":
		return "\n---\n\n"
	case "table":
		return table(s)
	case "img":
		alt, _ := s.Attr("alt")
		if alt == "" {
			alt = "image"
		}
		return "*[" + alt + "]*\n\n"
	case "div", "article", "section", "main", "header", "footer", "figure", "span", "nav", "aside":
		var sb strings.Builder
		s.Children().Each(func(_ int, child *goquery.Selection) {
			sb.WriteString(c.block(child, depth))
		})
		if sb.Len() == 0 {
			return paragraph(c.inline(s))
		}
		return sb.String()
	default:
		return paragraph(c.inline(s))
	}
}

func paragraph(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return text + "\n\n"
}

func (c *converter) inline(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			sb.WriteString(child.Text())
		case "a":
			sb.WriteString(c.link(child))
		case "strong", "b":
			sb.WriteString("**" + c.inline(child) + "**")
		case "em", "i":
			sb.WriteString("*" + c.inline(child) + "*")
		case "code":
			sb.WriteString("`" + child.Text() + "`")
		case "br":
			sb.WriteString("  \n")
		case "ul", "ol":
			// nested lists are emitted by list
		default:
			sb.WriteString(c.inline(child))
		}
	})
	return sb.String()
}

func (c *converter) link(s *goquery.Selection) string {
	href, _ := s.Attr("href")
	text := strings.TrimSpace(s.Text())
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return text
	}
	target := c.resolve(href)
	if text == "" {
		text = target
	}
	idx := len(c.links) + 1
	c.links = append(c.links, Link{Index: idx, Text: text, URL: target})
	return fmt.Sprintf("%s **[%d]**", text, idx)
}

func (c *converter) list(s *goquery.Selection, ordered bool, depth int) string {
	var sb strings.Builder
	indent := strings.Repeat("  ", depth)
	s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		prefix := indent + "- "
		if ordered {
			prefix = fmt.Sprintf("%s%d. ", indent, i+1)
		}
		sb.WriteString(prefix + strings.TrimSpace(c.inline(li)) + "\n")
		li.ChildrenFiltered("ul, ol").Each(func(_ int, nested *goquery.Selection) {
			sb.WriteString(strings.TrimRight(c.list(nested, goquery.NodeName(nested) == "ol", depth+1), "\n") + "\n")
		})
	})
	return sb.String() + "\n"
}

func codeBlock(s *goquery.Selection) string {
	lang := ""
	text := s.Text()
	if code := s.Find("code"); code.Length() > 0 {
		text = code.Text()
		class, _ := code.Attr("class")
		for _, cls := range strings.Fields(class) {
			if strings.HasPrefix(cls, "language-") {
				lang = strings.TrimPrefix(cls, "language-")
				break
			}
		}
	}
	return "```" + lang + "\n" + strings.TrimRight(text, "\n") + "\n```\n\n"
}

func table(s *goquery.Selection) string {
	var rows [][]string
	s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(strings.ReplaceAll(cell.Text(), "|", `\|`)))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	if len(rows) == 0 {
		return ""
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}

	var sb strings.Builder
	writeRow := func(r []string) {
		for len(r) < cols {
			r = append(r, "")
		}
		sb.WriteString("| " + strings.Join(r, " | ") + " |\n")
	}
	writeRow(rows[0])
	sep := make([]string, cols)
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, r := range rows[1:] {
		writeRow(r)
	}
	return sb.String() + "\n"
}
