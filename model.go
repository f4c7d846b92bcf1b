package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

const (
	defaultRefreshInterval = 5 * time.Second
	envRefreshSeconds      = "SLURMTOP_REFRESH_SECONDS"
	// tableChromeRows is what the header pills, table title, column header,
	// scroll indicator, and help bar occupy around the data rows.
	tableChromeRows = 7
)

type viewID int

const (
	viewOverview viewID = iota
	viewRunning
	viewPending
	viewAll
)

func (v viewID) String() string {
	switch v {
	case viewRunning:
		return "Running"
	case viewPending:
		return "Pending"
	case viewAll:
		return "All"
	default:
		return "Overview"
	}
}

// KeyMap defines the keybindings
type KeyMap struct {
	Quit       key.Binding
	Refresh    key.Binding
	Overview   key.Binding
	Running    key.Binding
	Pending    key.Binding
	All        key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	FocusLeft  key.Binding
	FocusRight key.Binding
	Filter     key.Binding
	CopyView   key.Binding
	Pause      key.Binding
	ToggleHelp key.Binding
}

var keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Overview:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
	Running:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "running")),
	Pending:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "pending")),
	All:        key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "all")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	FocusLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "focus left")),
	FocusRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "focus right")),
	Filter:     key.NewBinding(key.WithKeys("/", "f"), key.WithHelp("/", "filter")),
	CopyView:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy view")),
	Pause:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	ToggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Filter, k.FocusRight, k.ToggleHelp}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Overview, k.Running, k.Pending, k.All},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.FocusLeft, k.FocusRight},
		{k.Filter, k.CopyView, k.Refresh, k.Pause, k.Quit, k.ToggleHelp},
	}
}

type tickMsg time.Time

type snapshotMsg struct {
	snap *Snapshot
	// manual refreshes reset the scroll position; tick refreshes keep it.
	manual bool
}

// Model is the main application model. The view id, scroll offset, and
// focused column are the interaction state machine; everything else is
// presentation plumbing around it.
type Model struct {
	source   JobSource
	username string

	snap *Snapshot

	view          viewID
	scrollOffset  int
	focusedColumn int // -1 means no focus

	filterInput textinput.Model
	inputMode   bool

	overview viewport.Model
	help     help.Model

	width  int
	height int

	paused       bool
	refreshEvery time.Duration
	lastRefresh  time.Time
}

func NewModel(source JobSource, username string) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter"
	ti.CharLimit = 50
	ti.Width = 20
	ti.Prompt = ""
	ti.PromptStyle = lipgloss.NewStyle().Foreground(subtle)
	ti.TextStyle = lipgloss.NewStyle().Foreground(textStrong)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(subtle)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(highlight)

	m := Model{
		source:        source,
		username:      username,
		snap:          &Snapshot{Username: username, GPUTypeCount: map[string]int{}, GPUTypeRequested: map[string]int{}},
		view:          viewOverview,
		focusedColumn: -1,
		filterInput:   ti,
		overview:      viewport.New(78, 20),
		help:          help.New(),
		refreshEvery:  refreshIntervalFromEnv(),
	}

	width, height := detectTerminalSize()
	m.applyWindowSize(width, height)

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(false),
		m.tickCmd(),
		initialWindowSizeCmd(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		var cmds []tea.Cmd
		if !m.paused && !m.inputMode {
			cmds = append(cmds, m.refreshCmd(false))
		}
		cmds = append(cmds, m.tickCmd())
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snap = msg.snap
		m.lastRefresh = time.Now()
		if msg.manual {
			m.scrollOffset = 0
		}
		m.syncOverview()
		return m, nil

	case tea.WindowSizeMsg:
		// Some terminals briefly report zero dimensions; fall back to the
		// last known or a reasonable default size instead of going blank.
		width := msg.Width
		height := msg.Height
		if width <= 0 {
			if m.width > 0 {
				width = m.width
			} else {
				width, _ = detectTerminalSize()
			}
		}
		if height <= 0 {
			if m.height > 0 {
				height = m.height
			} else {
				_, height = detectTerminalSize()
			}
		}
		m.applyWindowSize(width, height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode {
		switch msg.String() {
		case "enter", "esc":
			m.inputMode = false
			m.filterInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			// The visible set changed under the scroll position.
			m.scrollOffset = 0
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Refresh):
		return m, m.refreshCmd(true)

	case key.Matches(msg, keys.Overview):
		m.selectView(viewOverview)
	case key.Matches(msg, keys.Running):
		m.selectView(viewRunning)
	case key.Matches(msg, keys.Pending):
		m.selectView(viewPending)
	case key.Matches(msg, keys.All):
		m.selectView(viewAll)

	case key.Matches(msg, keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, keys.PageUp):
		m.scrollBy(-m.pageSize())
	case key.Matches(msg, keys.PageDown):
		m.scrollBy(m.pageSize())

	case key.Matches(msg, keys.FocusLeft):
		m.cycleFocus(-1)
	case key.Matches(msg, keys.FocusRight):
		m.cycleFocus(1)

	case key.Matches(msg, keys.Filter):
		m.inputMode = true
		return m, m.filterInput.Focus()

	case key.Matches(msg, keys.CopyView):
		if text := m.viewAsText(); text != "" {
			return m, osc52CopyCmd(text)
		}

	case key.Matches(msg, keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, keys.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) selectView(v viewID) {
	m.view = v
	m.scrollOffset = 0
	m.focusedColumn = -1
	if v == viewOverview {
		m.syncOverview()
	}
}

func (m *Model) scrollBy(delta int) {
	m.scrollOffset += delta
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
	if m.view == viewOverview {
		m.overview.SetYOffset(m.scrollOffset)
	}
}

// cycleFocus moves the focused column through {-1, 0, .., maxColumnIndex}
// with wraparound in both directions. Overview has no columns, so it is a
// no-op there.
func (m *Model) cycleFocus(delta int) {
	if m.view == viewOverview {
		return
	}
	maxCol := m.maxColumnIndex()
	m.focusedColumn += delta
	if m.focusedColumn < -1 {
		m.focusedColumn = maxCol
	}
	if m.focusedColumn > maxCol {
		m.focusedColumn = -1
	}
}

func (m Model) maxColumnIndex() int {
	if m.view == viewPending {
		return 8
	}
	return 7
}

// pageSize is recomputed from the terminal height on every use, so page
// scrolling always moves by one screen of rows.
func (m Model) pageSize() int {
	size := m.height - tableChromeRows
	if size < 1 {
		size = 1
	}
	return size
}

// visibleJobs is the record set of the current table view after filtering.
// Column widths follow this set, not the full snapshot.
func (m Model) visibleJobs() []Job {
	var jobs []Job
	switch m.view {
	case viewRunning:
		jobs = m.snap.RunningSubset()
	case viewPending:
		jobs = m.snap.PendingSorted()
	case viewAll:
		jobs = m.snap.Jobs
	}
	return m.applyFilter(jobs)
}

func (m Model) applyFilter(jobs []Job) []Job {
	query := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	if query == "" {
		return jobs
	}
	filtered := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if strings.Contains(strings.ToLower(j.JobName), query) ||
			strings.Contains(j.JobID, query) ||
			strings.Contains(strings.ToLower(j.Account), query) {
			filtered = append(filtered, j)
		}
	}
	return filtered
}

// viewAsText flattens the current table view to tab-separated plain text for
// the clipboard. The overview has no tabular form and copies nothing.
func (m Model) viewAsText() string {
	if m.view == viewOverview {
		return ""
	}
	cols := tableColumns(m.view, m.snap)
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(col.Header)
	}
	for _, j := range m.visibleJobs() {
		b.WriteByte('\n')
		for i, col := range cols {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(col.Cell(j))
		}
	}
	return b.String()
}

func (m *Model) applyWindowSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.width = width
	m.height = height

	m.help.Width = width - 2

	switch {
	case width >= 110:
		m.filterInput.Width = 20
	case width >= 80:
		m.filterInput.Width = 12
	default:
		m.filterInput.Width = 10
	}

	vpWidth := width - 2
	if vpWidth < 10 {
		vpWidth = 10
	}
	m.overview.Width = vpWidth
	m.overview.Height = m.pageSize()
	m.syncOverview()
}

func (m *Model) syncOverview() {
	m.overview.SetContent(m.overviewContent())
	m.overview.SetYOffset(m.scrollOffset)
}

// --- Commands ---

func (m Model) refreshCmd(manual bool) tea.Cmd {
	src := m.source
	username := m.username
	return func() tea.Msg {
		return snapshotMsg{snap: refreshSnapshot(src, username), manual: manual}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialWindowSizeCmd() tea.Cmd {
	return func() tea.Msg {
		width, height := detectTerminalSize()
		return tea.WindowSizeMsg{Width: width, Height: height}
	}
}

func detectTerminalSize() (int, int) {
	width, height, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

func refreshIntervalFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv(envRefreshSeconds))
	if raw == "" {
		return defaultRefreshInterval
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return defaultRefreshInterval
	}
	return time.Duration(secs) * time.Second
}

func osc52CopyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		seq := osc52.New(text).Limit(100 * 1024)

		termEnv := strings.ToLower(os.Getenv("TERM"))
		if tmux := os.Getenv("TMUX"); tmux != "" || strings.HasPrefix(termEnv, "tmux") {
			seq = seq.Tmux()
		} else if strings.HasPrefix(termEnv, "screen") {
			seq = seq.Screen()
		}

		_, _ = seq.WriteTo(os.Stdout)
		return nil
	}
}
