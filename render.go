package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

func (m Model) View() string {
	header := m.renderHeaderArea()

	var body string
	switch m.view {
	case viewRunning:
		body = m.renderTablePanel("RUNNING JOBS", m.visibleJobs())
	case viewPending:
		body = m.renderTablePanel("PENDING JOBS", m.visibleJobs())
	case viewAll:
		body = m.renderTablePanel("ALL JOBS", m.visibleJobs())
	default:
		body = m.renderOverviewPanel()
	}

	sections := []string{header, body, m.help.View(keys)}
	if hint := m.filterHint(); hint != "" {
		sections = append(sections, hint)
	}

	fullView := lipgloss.JoinVertical(lipgloss.Left, sections...)
	fullView = clampViewHeight(fullView, m.height)
	fullView = clampViewWidth(fullView, m.width)
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, fullView)
}

func (m Model) renderHeaderArea() string {
	required := []string{
		metaPillStyle.Render("slurmtop " + m.snap.Username),
		metaViewPillStyle.Render("View " + m.view.String()),
	}

	if m.inputMode || m.filterInput.Value() != "" {
		required = append(required, filterBoxStyle.Render(m.filterInput.View()))
	}
	if m.paused {
		required = append(required, metaMutedPillStyle.Background(accentOrange).Foreground(textOnAccent).Render("Paused"))
	}
	if m.snap.DroppedJobs > 0 {
		// Jobs that vanished between the id listing and the status query.
		required = append(required, metaAlertPillStyle.Render(fmt.Sprintf("Dropped %d", m.snap.DroppedJobs)))
	}

	optional := []string{
		metaMutedPillStyle.Render(fmt.Sprintf("Jobs %d  R %d  PD %d", m.snap.TotalJobs, m.snap.RunningJobs, m.snap.PendingJobs)),
	}
	if !m.lastRefresh.IsZero() {
		optional = append(optional, metaMutedPillStyle.Render("Updated "+m.lastRefresh.Format("15:04:05")))
	}

	// Keep a one-line header by dropping optional items until it fits.
	parts := append([]string{}, required...)
	parts = append(parts, optional...)
	for len(parts) > 0 && lipgloss.Width(joinWithGap(parts, 1)) > m.width {
		// Drop lowest priority item (last).
		parts = parts[:len(parts)-1]
	}

	row := joinWithGap(parts, 1)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(row)
}

func (m Model) filterHint() string {
	if m.view == viewOverview || m.inputMode || m.filterInput.Value() != "" {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(filterHintStyle.Render("Press '/' to filter jobs"))
}

func (m Model) renderTablePanel(title string, jobs []Job) string {
	cols := tableColumns(m.view, m.snap)
	widths := layoutColumns(m.width, requiredWidths(cols, jobs), m.focusedColumn)

	lines := []string{
		panelTitleStyle.Render(fmt.Sprintf("%s (%d)", title, len(jobs))),
		m.renderHeaderRow(cols, widths),
	}

	if len(jobs) == 0 {
		lines = append(lines, placeholderStyle.Render("No jobs to display"))
		return strings.Join(lines, "\n")
	}

	maxRows := m.pageSize()
	shown := 0
	for i := m.scrollOffset; i < len(jobs) && shown < maxRows; i++ {
		lines = append(lines, m.renderRow(cols, widths, jobs[i]))
		shown++
	}
	if len(jobs) > maxRows {
		lines = append(lines, m.renderScrollInfo(len(jobs), shown))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeaderRow(cols []Column, widths []int) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		if i == m.focusedColumn {
			cells[i] = focusedHeaderStyle.Render(padCell("["+col.Header+"]", widths[i]))
		} else {
			cells[i] = tableHeaderStyle.Render(padCell(col.Header, widths[i]))
		}
	}
	return truncate.String(strings.Join(cells, " "), uint(maxRowWidth(m.width)))
}

func (m Model) renderRow(cols []Column, widths []int, j Job) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		value := col.Cell(j)
		if i == m.focusedColumn {
			// The focused column shows its full value; only the final
			// row clamp can cut it.
			cells[i] = runewidth.FillRight(value, widths[i])
		} else {
			cells[i] = padCell(value, widths[i])
		}
	}
	row := truncate.String(strings.Join(cells, " "), uint(maxRowWidth(m.width)))
	return rowStyleFor(j).Render(row)
}

func (m Model) renderScrollInfo(total, shown int) string {
	first := m.scrollOffset + 1
	last := m.scrollOffset + shown
	if first > total {
		first = total
	}
	return scrollInfoStyle.Render(fmt.Sprintf("Showing %d-%d of %d  (↑/↓ scroll, pgup/pgdn page)", first, last, total))
}

func (m Model) renderOverviewPanel() string {
	return strings.Join([]string{
		panelTitleStyle.Render("JOB OVERVIEW"),
		m.overview.View(),
	}, "\n")
}

func (m Model) overviewContent() string {
	snap := m.snap
	lines := []string{
		fmt.Sprintf("Total Jobs: %d", snap.TotalJobs),
		runningRowStyle.Render(fmt.Sprintf("Running:    %d", snap.RunningJobs)),
		pendingRowStyle.Render(fmt.Sprintf("Pending:    %d", snap.PendingJobs)),
	}
	if snap.DroppedJobs > 0 {
		lines = append(lines, placeholderStyle.Render(fmt.Sprintf("Dropped:    %d (vanished during refresh)", snap.DroppedJobs)))
	}

	if len(snap.GPUTypeCount) > 0 {
		lines = append(lines, "", overviewHeadingStyle.Render("RUNNING JOBS - GPU ALLOCATIONS"), "")
		for _, t := range gpuTypes(snap.GPUTypeCount) {
			lines = append(lines, runningRowStyle.Render(fmt.Sprintf("  %-15s: %d GPUs", t, snap.GPUTypeCount[t])))
		}
		lines = append(lines, "", overviewTotalStyle.Render(fmt.Sprintf("  Total Running  : %d GPUs", totalGPUs(snap.GPUTypeCount))))
	}

	if len(snap.GPUTypeRequested) > 0 {
		lines = append(lines, "", overviewHeadingStyle.Render("PENDING JOBS - GPU REQUESTS"), "")
		for _, t := range gpuTypes(snap.GPUTypeRequested) {
			lines = append(lines, pendingRowStyle.Render(fmt.Sprintf("  %-15s: %d GPUs", t, snap.GPUTypeRequested[t])))
		}
		lines = append(lines, "", overviewTotalStyle.Render(fmt.Sprintf("  Total Requested: %d GPUs", totalGPUs(snap.GPUTypeRequested))))
	}

	return strings.Join(lines, "\n")
}

// padCell fits a value into a cell of the given width, truncating with an
// ellipsis when it is too wide. Zero-width cells disappear entirely.
func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillRight(text, width)
}

func maxRowWidth(terminalWidth int) int {
	w := terminalWidth - 2
	if w < 1 {
		w = 1
	}
	return w
}

func joinWithGap(parts []string, gap int) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	if len(filtered) == 0 {
		return ""
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	if gap <= 0 {
		return lipgloss.JoinHorizontal(lipgloss.Left, filtered...)
	}
	spacer := lipgloss.NewStyle().Width(gap).Render(" ")
	row := filtered[0]
	for _, part := range filtered[1:] {
		row = lipgloss.JoinHorizontal(lipgloss.Left, row, spacer, part)
	}
	return row
}

func clampViewWidth(view string, width int) string {
	if width <= 0 {
		return view
	}
	lines := strings.Split(strings.ReplaceAll(view, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = truncate.String(line, uint(width))
		}
	}
	return strings.Join(lines, "\n")
}

func clampViewHeight(view string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(view, "\r\n", "\n"), "\n")
	if len(lines) <= height {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:height], "\n")
}
