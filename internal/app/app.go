package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/surftabs/internal/browser"
	"github.com/vidyasagar/surftabs/internal/logx"
	"github.com/vidyasagar/surftabs/internal/storage"
	"github.com/vidyasagar/surftabs/internal/tabs"
	"github.com/vidyasagar/surftabs/internal/theme"
	"github.com/vidyasagar/surftabs/internal/ui"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal    Mode = iota
	ModeInsert         // URL bar focused
	ModeCommand        // : command bar
	ModeFollow         // link number entry
	ModeBookmarks      // bookmark panel focused
	ModeHelp           // help overlay
)

func (md Mode) label() string {
	switch md {
	case ModeInsert:
		return ui.ModeInsert
	case ModeCommand:
		return ui.ModeCommand
	case ModeFollow:
		return ui.ModeFollow
	case ModeBookmarks:
		return ui.ModeBookmarks
	case ModeHelp:
		return ui.ModeHelp
	default:
		return ui.ModeNormal
	}
}

// BookmarkStore is the bookmark persistence the browser uses.
type BookmarkStore interface {
	List() ([]storage.Bookmark, error)
	Add(url, title string) (bool, error)
	Remove(url string) (bool, error)
	Has(url string) bool
}

// VisitLog records successful page loads.
type VisitLog interface {
	Record(url, title string) error
}

// Options wires the model's collaborators. Nil stores disable the features
// that need them.
type Options struct {
	Surface   Surface
	Bookmarks BookmarkStore
	Visits    VisitLog
	StartURL  string
	IDs       tabs.IDGenerator // nil uses random UUIDs
}

// tabView is the display's latest result for one tab. A nil page after a
// failure lets the tab's load error show instead.
type tabView struct {
	page   *browser.Page
	offset int
}

// Model is the top-level bubbletea model. All tab and history state lives in
// the navigator; the model only keeps what the display produced for it.
type Model struct {
	ctx     context.Context
	nav     *tabs.Navigator
	display *teaDisplay
	views   map[tabs.TabID]*tabView

	urlBar        ui.URLBar
	statusBar     ui.StatusBar
	commandBar    ui.CommandBar
	viewport      ui.PageViewport
	splitPane     ui.SplitPane
	bookmarkPanel ui.BookmarkPanel
	helpPanel     ui.HelpPanel

	bookmarks BookmarkStore
	visits    VisitLog

	// content currently in the viewport
	shown      tabs.TabID
	shownPage  *browser.Page
	shownError *tabs.LoadError

	keys     KeyMap
	mode     Mode
	width    int
	height   int
	lastGKey bool // for gg, gt and gT
	ready    bool
	startURL string
}

// New creates the model. ctx carries the logger and bounds every page load.
func New(ctx context.Context, opts Options) Model {
	display := newTeaDisplay(ctx, opts.Surface)

	var stateOpts []tabs.StateOption
	if opts.IDs != nil {
		stateOpts = append(stateOpts, tabs.WithIDGenerator(opts.IDs))
	}
	nav := tabs.NewNavigator(ctx, display, stateOpts...)

	views := make(map[tabs.TabID]*tabView)
	nav.Subscribe(func(s *tabs.State) {
		for id := range views {
			if _, ok := s.Tab(id); !ok {
				delete(views, id)
			}
		}
		for id := range display.inflight {
			if _, ok := s.Tab(id); !ok {
				display.cancel(id)
			}
		}
	})

	keys := DefaultKeyMap()
	return Model{
		ctx:           ctx,
		nav:           nav,
		display:       display,
		views:         views,
		urlBar:        ui.NewURLBar(),
		statusBar:     ui.NewStatusBar(),
		commandBar:    ui.NewCommandBar(),
		viewport:      ui.NewPageViewport(),
		splitPane:     ui.NewSplitPane(),
		bookmarkPanel: ui.NewBookmarkPanel(),
		helpPanel:     ui.NewHelpPanel(keys.HelpGroups()),
		bookmarks:     opts.Bookmarks,
		visits:        opts.Visits,
		keys:          keys,
		startURL:      opts.StartURL,
	}
}

// BookmarkShortcuts returns the newest bookmarks as new-tab page tiles.
func BookmarkShortcuts(store BookmarkStore, limit int) func() []browser.Link {
	return func() []browser.Link {
		if store == nil {
			return nil
		}
		list, err := store.List()
		if err != nil {
			return nil
		}
		if len(list) > limit {
			list = list[:limit]
		}
		links := make([]browser.Link, 0, len(list))
		for _, b := range list {
			links = append(links, browser.Link{Text: b.Title, URL: b.URL})
		}
		return links
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.startURL != "" {
		m.nav.Navigate(m.startURL)
	}
	m.sync()
	return m.display.drain()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case pageLoadedMsg:
		m.handlePageLoaded(msg)

	case tea.KeyMsg:
		m, cmd = m.handleKeyMsg(msg)

	default:
		vp, vcmd := m.viewport.Update(msg)
		m.viewport = *vp
		cmd = vcmd
	}

	m.sync()
	return m, tea.Batch(cmd, m.display.drain())
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Starting surftabs..."
	}

	var panel string
	if m.splitPane.IsOpen() {
		panel = m.bookmarkPanel.View()
	}
	sections := []string{
		ui.RenderTabBar(m.nav.Snapshot(), m.width),
		m.urlBar.View(),
		m.splitPane.Render(panel, m.viewport.View()),
		m.statusBar.View(),
	}
	if m.commandBar.IsActive() {
		sections = append(sections, m.commandBar.View())
	}
	result := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.helpPanel.IsVisible() {
		result = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpPanel.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(theme.Current.Background),
		)
	}
	return result
}

// layout recalculates dimensions for all components.
func (m *Model) layout() {
	m.urlBar.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.commandBar.SetWidth(m.width)

	// tab bar, bordered URL bar, status bar
	height := m.height - 1 - 3 - 1
	if m.mode == ModeCommand || m.mode == ModeFollow {
		height--
	}
	if height < 1 {
		height = 1
	}

	m.splitPane.SetSize(m.width, height)
	m.bookmarkPanel.SetSize(m.splitPane.PanelWidth(), height)
	if m.viewport.Width() == 0 {
		// content set before the first size was dropped; show it again
		m.shown = ""
	}
	m.viewport.SetSize(m.splitPane.MainWidth(), height)
	m.display.width = m.splitPane.MainWidth()
}

// setMode switches input mode and keeps the layout in step with the
// command bar.
func (m *Model) setMode(mode Mode) {
	m.mode = mode
	m.statusBar.SetMode(mode.label())
	m.layout()
}

// sync makes sure every tab has been handed to the display and refreshes the
// chrome from the current snapshot.
func (m *Model) sync() {
	s := m.nav.Snapshot()
	for _, t := range s.Tabs() {
		if _, ok := m.views[t.ID()]; !ok && !m.display.Loading(t.ID()) {
			m.display.Load(t.ID(), t.Current())
		}
	}

	active := s.Active()
	view := m.views[active.ID()]
	var page *browser.Page
	if view != nil {
		page = view.page
	}

	switch {
	case active.ID() != m.shown:
		if prev, ok := m.views[m.shown]; ok {
			prev.offset = m.viewport.YOffset()
		}
		offset := 0
		if view != nil {
			offset = view.offset
		}
		m.viewport.SetContent(m.content(active, page), offset)
	case page != m.shownPage || active.LoadError() != m.shownError:
		m.viewport.SetContent(m.content(active, page), 0)
	}
	m.shown, m.shownPage, m.shownError = active.ID(), page, active.LoadError()

	m.urlBar.Show(active.URL())
	m.statusBar.SetTitle(active.Title())
	m.statusBar.SetNav(active.CanGoBack(), active.CanGoForward())
	m.statusBar.SetLoading(m.display.Loading(active.ID()))
	m.statusBar.SetScrollInfo(m.viewport.ScrollInfo())
	if le := active.LoadError(); le != nil {
		m.statusBar.SetNotice(le.Reason)
	} else {
		m.statusBar.SetNotice("")
	}
	if page != nil && active.LoadError() == nil {
		m.statusBar.SetLinkCount(len(page.Links))
	} else {
		m.statusBar.SetLinkCount(0)
	}
}

// content is what the viewport shows for tab: the error panel while the tab
// carries a load error, otherwise the latest page.
func (m *Model) content(t *tabs.Tab, page *browser.Page) string {
	if le := t.LoadError(); le != nil {
		th := theme.Current
		head := lipgloss.NewStyle().Foreground(th.Error).Bold(true).Padding(2, 4)
		detail := lipgloss.NewStyle().Foreground(th.TextDim).Padding(0, 4)
		return head.Render("This page cannot be shown") + "\n\n" +
			detail.Render(fmt.Sprintf("URL: %s\n%s\n\nPress r to retry.", t.URL(), le.Reason))
	}
	if page == nil {
		return ""
	}
	return page.Content
}

// activePage returns the page shown in the active tab, if any.
func (m *Model) activePage() *browser.Page {
	active := m.nav.Snapshot().Active()
	if v, ok := m.views[active.ID()]; ok && active.LoadError() == nil {
		return v.page
	}
	return nil
}

// handlePageLoaded reports a finished load to the navigator. The navigator
// drops reports for tabs that closed or moved on.
func (m *Model) handlePageLoaded(msg pageLoadedMsg) {
	if !m.display.done(msg) {
		return
	}
	log := logx.WithURL(logx.WithTab(m.ctx, logx.Ctx(m.ctx), string(msg.tabID)), msg.url)

	if msg.err != nil {
		override := "Failed to load"
		if browser.IsRefused(msg.err) {
			override = "Blocked"
		}
		if err := m.nav.ReportDisplayErrorFor(msg.tabID, msg.url, msg.err.Error(), override); err == nil {
			m.views[msg.tabID] = &tabView{}
		}
		return
	}

	if err := m.nav.ReportLoadSuccessFor(msg.tabID, msg.url, msg.page.Title); err != nil {
		return
	}
	m.views[msg.tabID] = &tabView{page: msg.page}
	if m.visits != nil && msg.url != "" {
		t, _ := m.nav.Snapshot().Tab(msg.tabID)
		if err := m.visits.Record(msg.url, t.Title()); err != nil {
			log.Error("recording visit failed", "err", err.Error())
		}
	}
}

// handleKeyMsg processes key events based on current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.statusBar.SetMessage("")

	switch m.mode {
	case ModeInsert:
		return m.handleInsertMode(msg)
	case ModeCommand, ModeFollow:
		return m.handleCommandMode(msg)
	case ModeBookmarks:
		return m.handleBookmarksMode(msg)
	case ModeHelp:
		if msg.Type == tea.KeyEsc || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
			m.helpPanel.Hide()
			m.setMode(ModeNormal)
		}
		return m, nil
	default:
		return m.handleNormalMode(msg)
	}
}

// handleNormalMode processes keys while browsing.
func (m Model) handleNormalMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	// g prefixes: gg top, gt next tab, gT previous tab.
	if m.lastGKey {
		m.lastGKey = false
		switch msg.String() {
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "t":
			m.nav.NextTab()
			return m, nil
		case "T":
			m.nav.PrevTab()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.GotoTop):
		m.lastGKey = true
	case key.Matches(msg, m.keys.GotoBottom):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()

	case key.Matches(msg, m.keys.OpenURL):
		m.setMode(ModeInsert)
		return m, m.urlBar.Focus()
	case key.Matches(msg, m.keys.Back):
		m.navResult("back", m.nav.Back())
	case key.Matches(msg, m.keys.Forward):
		m.navResult("forward", m.nav.Forward())
	case key.Matches(msg, m.keys.Refresh):
		m.nav.Refresh()
	case key.Matches(msg, m.keys.FollowLink):
		if page := m.activePage(); page == nil || len(page.Links) == 0 {
			m.statusBar.SetMessage("No links on this page")
			return m, nil
		}
		m.setMode(ModeFollow)
		return m, m.commandBar.Open(ui.CommandFollow)

	case key.Matches(msg, m.keys.NewTab):
		m.nav.OpenTab()
	case key.Matches(msg, m.keys.CloseTab):
		m.navResult("close tab", m.nav.CloseTab(m.nav.Snapshot().ActiveID()))
	case key.Matches(msg, m.keys.NextTab):
		m.nav.NextTab()
	case key.Matches(msg, m.keys.PrevTab):
		m.nav.PrevTab()

	case key.Matches(msg, m.keys.Bookmark):
		m.addBookmark()
	case key.Matches(msg, m.keys.Bookmarks):
		m.openBookmarks()

	case key.Matches(msg, m.keys.CommandMode):
		m.setMode(ModeCommand)
		return m, m.commandBar.Open(ui.CommandEx)
	case key.Matches(msg, m.keys.Help):
		m.helpPanel.Show()
		m.setMode(ModeHelp)
	}
	return m, nil
}

// handleInsertMode edits the address in the URL bar.
func (m Model) handleInsertMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.urlBar.Blur()
		m.setMode(ModeNormal)
		return m, nil
	case tea.KeyEnter:
		raw := strings.TrimSpace(m.urlBar.Value())
		m.urlBar.Blur()
		m.setMode(ModeNormal)
		if raw != "" {
			m.nav.Navigate(raw)
		}
		return m, nil
	}
	ub, cmd := m.urlBar.Update(msg)
	m.urlBar = *ub
	return m, cmd
}

// handleCommandMode drives the command bar for : commands and follow.
func (m Model) handleCommandMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commandBar.Close()
		m.setMode(ModeNormal)
		return m, nil
	case tea.KeyEnter:
		result := m.commandBar.Submit()
		m.setMode(ModeNormal)
		if result.Type == ui.CommandFollow {
			m.followLink(result.Value)
			return m, nil
		}
		return m.executeCommand(result.Value)
	}
	cb, cmd := m.commandBar.Update(msg)
	m.commandBar = *cb
	return m, cmd
}

// executeCommand runs a : command line.
func (m Model) executeCommand(line string) (Model, tea.Cmd) {
	c, err := parseCommand(line)
	if err != nil {
		if !errors.Is(err, errEmptyCommand) {
			m.statusBar.SetMessage(err.Error())
		}
		return m, nil
	}

	switch c.kind {
	case cmdQuit:
		return m, tea.Quit
	case cmdOpen:
		m.nav.Navigate(c.arg)
	case cmdTabNew:
		m.nav.OpenTab()
		if c.arg != "" {
			m.nav.Navigate(c.arg)
		}
	case cmdTabClose:
		m.navResult("close tab", m.nav.CloseTab(m.nav.Snapshot().ActiveID()))
	case cmdBack:
		m.navResult("back", m.nav.Back())
	case cmdForward:
		m.navResult("forward", m.nav.Forward())
	case cmdRefresh:
		m.nav.Refresh()
	case cmdBookmark:
		m.addBookmark()
	case cmdBookmarks:
		m.openBookmarks()
	case cmdTheme:
		m.setTheme(c.arg)
	}
	return m, nil
}

// navResult surfaces navigator failures. Recoverable outcomes, such as back
// at the first entry, are silent no-ops.
func (m *Model) navResult(op string, err error) {
	if err == nil || tabs.IsRecoverable(err) {
		return
	}
	logx.Ctx(m.ctx).Error(op+" failed", "err", err.Error())
	m.statusBar.SetMessage(err.Error())
}

// setTheme switches palettes. Cached pages hold colours of the old theme, so
// they are dropped and every tab is re-rendered.
func (m *Model) setTheme(name string) {
	if name == "" {
		m.statusBar.SetMessage(fmt.Sprintf("Theme: %s (available: %s)", theme.Current.Name, strings.Join(theme.List(), ", ")))
		return
	}
	if err := theme.Set(name); err != nil {
		m.statusBar.SetMessage(err.Error())
		return
	}
	if p, ok := m.display.surface.(interface{ Purge() }); ok {
		p.Purge()
	}
	// Background tabs lose their view and are loaded again by sync.
	active := m.nav.Snapshot().ActiveID()
	for id := range m.views {
		if id != active {
			delete(m.views, id)
		}
	}
	m.nav.Refresh()
	m.statusBar.SetMessage("Theme: " + name)
}

// followLink navigates the active tab to the numbered link.
func (m *Model) followLink(input string) {
	num, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		m.statusBar.SetMessage(fmt.Sprintf("Invalid link number: %s", input))
		return
	}
	page := m.activePage()
	if page == nil {
		m.statusBar.SetMessage("No page loaded")
		return
	}
	link, ok := page.LinkByIndex(num)
	if !ok {
		m.statusBar.SetMessage(fmt.Sprintf("Link [%d] not found", num))
		return
	}
	m.nav.Navigate(link.URL)
}

// addBookmark saves the active tab's destination.
func (m *Model) addBookmark() {
	if m.bookmarks == nil {
		m.statusBar.SetMessage("Bookmarks are unavailable")
		return
	}
	active := m.nav.Snapshot().Active()
	if active.Current().Kind != tabs.KindWeb {
		m.statusBar.SetMessage("Nothing to bookmark")
		return
	}
	added, err := m.bookmarks.Add(active.URL(), active.Title())
	switch {
	case err != nil:
		logx.Ctx(m.ctx).Error("adding bookmark failed", "url", active.URL(), "err", err.Error())
		m.statusBar.SetMessage("Could not save bookmark")
	case added:
		m.statusBar.SetMessage("Bookmarked " + active.Title())
	default:
		m.statusBar.SetMessage("Already bookmarked")
	}
}

// openBookmarks shows the bookmark panel beside the page.
func (m *Model) openBookmarks() {
	if m.bookmarks == nil {
		m.statusBar.SetMessage("Bookmarks are unavailable")
		return
	}
	list, err := m.bookmarks.List()
	if err != nil {
		logx.Ctx(m.ctx).Error("listing bookmarks failed", "err", err.Error())
		m.statusBar.SetMessage("Could not read bookmarks")
		return
	}
	m.bookmarkPanel.SetEntries(list)
	m.bookmarkPanel.Show()
	m.splitPane.Open()
	m.setMode(ModeBookmarks)
}

func (m *Model) closeBookmarks() {
	m.bookmarkPanel.Hide()
	m.splitPane.Close()
	m.setMode(ModeNormal)
}

// handleBookmarksMode drives the bookmark panel. Enter feeds the selection
// to the active tab as a navigation.
func (m Model) handleBookmarksMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc, key.Matches(msg, m.keys.Bookmarks), key.Matches(msg, m.keys.Quit):
		m.closeBookmarks()
	case key.Matches(msg, m.keys.ScrollDown):
		m.bookmarkPanel.CursorDown()
	case key.Matches(msg, m.keys.ScrollUp):
		m.bookmarkPanel.CursorUp()
	case key.Matches(msg, m.keys.GotoTop):
		m.bookmarkPanel.GotoTop()
	case key.Matches(msg, m.keys.GotoBottom):
		m.bookmarkPanel.GotoBottom()
	case msg.Type == tea.KeyEnter:
		if b, ok := m.bookmarkPanel.Selected(); ok {
			m.closeBookmarks()
			m.nav.Navigate(b.URL)
		}
	case msg.String() == "d":
		b, ok := m.bookmarkPanel.Selected()
		if !ok {
			return m, nil
		}
		if _, err := m.bookmarks.Remove(b.URL); err != nil {
			logx.Ctx(m.ctx).Error("removing bookmark failed", "url", b.URL, "err", err.Error())
			m.statusBar.SetMessage("Could not remove bookmark")
			return m, nil
		}
		m.bookmarkPanel.RemoveSelected()
		m.statusBar.SetMessage("Removed " + b.Label())
	}
	return m, nil
}
