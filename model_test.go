package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(&fakeSource{}, "alice")
	m.applyWindowSize(100, 30)
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testSnapshot() *Snapshot {
	return &Snapshot{
		Username: "alice",
		Jobs: []Job{
			{JobID: "100", JobName: "llama_train", Account: "research", State: stateRunning, Runtime: "01:00:00", TimeLimit: "2-00:00:00", GPUCount: 4, GPUType: "h100", Priority: 50},
			{JobID: "101", JobName: "bert_eval", Account: "research", State: statePending, Reason: "Priority", TimeLimit: "04:00:00", GPUCount: 2, GPUType: "a100", Priority: 40},
			{JobID: "102", JobName: "cleanup", Account: "ops", State: statePending, Reason: "Resources", TimeLimit: "01:00:00", Priority: 10},
		},
		AllPendingJobs: []Job{
			{JobID: "900", Priority: 90},
			{JobID: "101", Priority: 40},
			{JobID: "102", Priority: 10},
		},
		TotalJobs:        3,
		RunningJobs:      1,
		PendingJobs:      2,
		GPUTypeCount:     map[string]int{"h100": 4},
		GPUTypeRequested: map[string]int{"a100": 2},
	}
}

func withSnapshot(t *testing.T, m Model, snap *Snapshot) Model {
	t.Helper()
	updated, _ := m.Update(snapshotMsg{snap: snap})
	return updated.(Model)
}

func TestSelectViewResetsScrollAndFocus(t *testing.T) {
	m := newTestModel(t)
	m.view = viewAll
	m.scrollOffset = 5
	m.focusedColumn = 3

	m = press(t, m, keyRunes("2"))

	if m.view != viewRunning {
		t.Fatalf("view = %v, want Running", m.view)
	}
	if m.scrollOffset != 0 || m.focusedColumn != -1 {
		t.Errorf("scroll/focus = (%d, %d), want (0, -1)", m.scrollOffset, m.focusedColumn)
	}
}

func TestFocusCycleWraparound(t *testing.T) {
	m := newTestModel(t)
	m.view = viewRunning

	// -1 -> 0 -> .. -> 7 -> -1 over nine key presses.
	for i := 0; i < 8; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.focusedColumn != 7 {
		t.Fatalf("focusedColumn = %d after 8 presses, want 7", m.focusedColumn)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.focusedColumn != -1 {
		t.Errorf("focusedColumn = %d after wraparound, want -1", m.focusedColumn)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.focusedColumn != 7 {
		t.Errorf("focusedColumn = %d after left from no-focus, want 7", m.focusedColumn)
	}
}

func TestFocusCyclePendingHasExtraColumn(t *testing.T) {
	m := newTestModel(t)
	m.view = viewPending

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.focusedColumn != 8 {
		t.Errorf("focusedColumn = %d, want 8 (pending view has nine columns)", m.focusedColumn)
	}
}

func TestFocusCycleOverviewNoop(t *testing.T) {
	m := newTestModel(t)
	m.view = viewOverview

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.focusedColumn != -1 {
		t.Errorf("focusedColumn = %d, want -1 (overview has no columns)", m.focusedColumn)
	}
}

func TestScrollClampsAtTop(t *testing.T) {
	m := newTestModel(t)
	m.view = viewAll

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.scrollOffset != 0 {
		t.Errorf("scrollOffset = %d, want 0", m.scrollOffset)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.scrollOffset != 1 {
		t.Errorf("scrollOffset = %d, want 1", m.scrollOffset)
	}
}

func TestPageScroll(t *testing.T) {
	m := newTestModel(t)
	m.view = viewAll
	page := m.pageSize()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	if m.scrollOffset != page {
		t.Errorf("scrollOffset = %d, want %d", m.scrollOffset, page)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	if m.scrollOffset != 0 {
		t.Errorf("scrollOffset = %d, want 0", m.scrollOffset)
	}
}

func TestManualRefreshResetsScrollKeepsFocus(t *testing.T) {
	m := newTestModel(t)
	m.view = viewAll
	m.scrollOffset = 9
	m.focusedColumn = 2

	updated, _ := m.Update(snapshotMsg{snap: testSnapshot(), manual: true})
	m = updated.(Model)

	if m.scrollOffset != 0 {
		t.Errorf("scrollOffset = %d, want 0 after manual refresh", m.scrollOffset)
	}
	if m.focusedColumn != 2 {
		t.Errorf("focusedColumn = %d, want 2 (focus survives refresh)", m.focusedColumn)
	}
	if m.snap.TotalJobs != 3 {
		t.Errorf("snapshot was not swapped in")
	}
}

func TestTickRefreshKeepsScroll(t *testing.T) {
	m := newTestModel(t)
	m.view = viewAll
	m.scrollOffset = 4

	updated, _ := m.Update(snapshotMsg{snap: testSnapshot()})
	m = updated.(Model)

	if m.scrollOffset != 4 {
		t.Errorf("scrollOffset = %d, want 4 after background refresh", m.scrollOffset)
	}
}

func TestFilterNarrowsVisibleJobs(t *testing.T) {
	m := newTestModel(t)
	m = withSnapshot(t, m, testSnapshot())
	m.view = viewAll

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"llama", 1},
		{"research", 2},
		{"102", 1},
		{"LLAMA", 1},
		{"nomatch", 0},
	}
	for _, tt := range tests {
		m.filterInput.SetValue(tt.query)
		if got := len(m.visibleJobs()); got != tt.want {
			t.Errorf("filter %q matched %d jobs, want %d", tt.query, got, tt.want)
		}
	}
}

func TestFilterModeCapturesKeys(t *testing.T) {
	m := newTestModel(t)
	m.view = viewAll

	m = press(t, m, keyRunes("/"))
	if !m.inputMode {
		t.Fatalf("expected input mode after /")
	}

	// While typing, ordinary bindings like q must not fire.
	m = press(t, m, keyRunes("q"))
	if !m.inputMode {
		t.Errorf("input mode ended by a plain rune")
	}
	if m.filterInput.Value() != "q" {
		t.Errorf("filter value = %q, want q", m.filterInput.Value())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.inputMode {
		t.Errorf("enter did not leave input mode")
	}
	if m.filterInput.Value() != "q" {
		t.Errorf("filter value lost on enter: %q", m.filterInput.Value())
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("got %T, want tea.QuitMsg", msg)
	}
}

func TestPauseToggle(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, keyRunes("p"))
	if !m.paused {
		t.Fatalf("expected paused after p")
	}
	m = press(t, m, keyRunes("p"))
	if m.paused {
		t.Errorf("expected unpaused after second p")
	}
}

func TestViewAsText(t *testing.T) {
	m := newTestModel(t)
	m = withSnapshot(t, m, testSnapshot())

	m.view = viewOverview
	if got := m.viewAsText(); got != "" {
		t.Errorf("overview copy = %q, want empty", got)
	}

	m.view = viewAll
	text := m.viewAsText()
	lines := strings.Split(text, "\n")
	if len(lines) != 4 {
		t.Fatalf("copied %d lines, want header plus 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "JobID\tJobName\t") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "llama_train") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestViewFitsInWindow(t *testing.T) {
	sizes := []struct{ width, height int }{
		{120, 40},
		{80, 24},
		{40, 12},
	}
	views := []viewID{viewOverview, viewRunning, viewPending, viewAll}

	for _, size := range sizes {
		m := NewModel(&fakeSource{}, "alice")
		m.applyWindowSize(size.width, size.height)
		m = withSnapshot(t, m, testSnapshot())

		for _, v := range views {
			m.view = v
			out := m.View()
			lines := strings.Split(out, "\n")
			if len(lines) > size.height {
				t.Errorf("%v view at %dx%d renders %d lines", v, size.width, size.height, len(lines))
			}
			for i, line := range lines {
				if w := lipgloss.Width(line); w > size.width {
					t.Errorf("%v view at %dx%d: line %d is %d cells wide", v, size.width, size.height, i, w)
				}
			}
		}
	}
}

func TestRefreshIntervalFromEnv(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"", defaultRefreshInterval},
		{"2", 2 * time.Second},
		{"0", defaultRefreshInterval},
		{"-5", defaultRefreshInterval},
		{"junk", defaultRefreshInterval},
	}
	for _, tt := range tests {
		t.Setenv(envRefreshSeconds, tt.value)
		if got := refreshIntervalFromEnv(); got != tt.expected {
			t.Errorf("refreshIntervalFromEnv with %q = %v, want %v", tt.value, got, tt.expected)
		}
	}
}
