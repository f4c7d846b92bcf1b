package main

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

const (
	// maxColumnWidth caps any single column, padding included.
	maxColumnWidth = 50
	// extraGrowthCap limits how much a column may grow in the proportional
	// pass when the terminal is wider than the table needs.
	extraGrowthCap = 20
)

// Column describes one table column: its header and how to derive a cell
// from a job record. Views are just column slices, so layout and rendering
// never index parallel arrays.
type Column struct {
	Header string
	Cell   func(Job) string
}

func gpuTypeCell(j Job) string {
	if j.GPUCount > 0 {
		return j.GPUType
	}
	return gpuTypeNone
}

// tableColumns returns the column set for a table view. Running and All share
// an 8-column layout; Pending swaps Runtime for Reason and appends Priority
// plus the queue-wide "Higher" rank, which reads the snapshot's global
// pending list.
func tableColumns(view viewID, snap *Snapshot) []Column {
	cols := []Column{
		{Header: "JobID", Cell: func(j Job) string { return j.JobID }},
		{Header: "JobName", Cell: func(j Job) string { return j.JobName }},
		{Header: "Account", Cell: func(j Job) string { return j.Account }},
	}

	if view == viewPending {
		return append(cols,
			Column{Header: "Reason", Cell: func(j Job) string { return j.Reason }},
			Column{Header: "TimeLimit", Cell: func(j Job) string { return j.TimeLimit }},
			Column{Header: "GPUs", Cell: func(j Job) string { return strconv.Itoa(j.GPUCount) }},
			Column{Header: "GPU Type", Cell: gpuTypeCell},
			Column{Header: "Priority", Cell: func(j Job) string { return strconv.Itoa(j.Priority) }},
			Column{Header: "Higher", Cell: func(j Job) string {
				return strconv.Itoa(snap.HigherPriorityCount(j.Priority))
			}},
		)
	}

	return append(cols,
		Column{Header: "Runtime", Cell: func(j Job) string { return j.Runtime }},
		Column{Header: "TimeLimit", Cell: func(j Job) string { return j.TimeLimit }},
		Column{Header: "GPUs", Cell: func(j Job) string { return strconv.Itoa(j.GPUCount) }},
		Column{Header: "GPU Type", Cell: gpuTypeCell},
		Column{Header: "Status", Cell: func(j Job) string { return j.State }},
	)
}

// requiredWidth is the widest rendered value in the column (or its header if
// wider), plus one unit of padding, capped at maxColumnWidth.
func requiredWidth(col Column, jobs []Job) int {
	w := runewidth.StringWidth(col.Header)
	for _, j := range jobs {
		if l := runewidth.StringWidth(col.Cell(j)); l > w {
			w = l
		}
	}
	if w+1 > maxColumnWidth {
		return maxColumnWidth
	}
	return w + 1
}

func requiredWidths(cols []Column, jobs []Job) []int {
	required := make([]int, len(cols))
	for i, col := range cols {
		required[i] = requiredWidth(col, jobs)
	}
	return required
}

// columnFloor is the minimum width a column may shrink to when the table is
// over budget. Columns 4 and 5 carry short fixed-format values (a duration
// and a small count) and tolerate being narrower.
func columnFloor(i int) int {
	if i == 4 || i == 5 {
		return 5
	}
	return 8
}

// layoutColumns assigns a width to every column under the terminal width
// budget. focused is -1 for no focus. Pure function: identical inputs yield
// identical widths.
//
// The budget reserves one separator per column gap plus a two-cell margin.
// With a focused column, that column takes min(required+2, budget) (the +2
// holds its bracket decorations) and the rest share what remains, each capped
// at its own requirement; leftover goes first to still-short columns, then
// round-robin. Without focus, columns get their requirement plus a
// proportional share of any surplus, or shrink proportionally with per-column
// floors when over budget. Floored widths may overshoot the budget slightly;
// the renderer's hard row clamp absorbs that.
func layoutColumns(terminalWidth int, required []int, focused int) []int {
	n := len(required)
	widths := make([]int, n)
	if n == 0 {
		return widths
	}
	available := terminalWidth - (n - 1) - 2

	if focused >= 0 && focused < n && n > 1 {
		focusedWidth := required[focused] + 2
		if focusedWidth > available {
			focusedWidth = available
		}
		widths[focused] = focusedWidth

		remaining := available - focusedWidth
		share := remaining / (n - 1)
		for i := range widths {
			if i == focused {
				continue
			}
			w := required[i]
			if w > share {
				w = share
			}
			widths[i] = w
		}

		used := 0
		for i, w := range widths {
			if i != focused {
				used += w
			}
		}
		leftover := remaining - used

		// Columns capped below their requirement grow first, in index order.
		for i := 0; i < n && leftover > 0; i++ {
			if i == focused {
				continue
			}
			if grow := required[i] - widths[i]; grow > 0 {
				if grow > leftover {
					grow = leftover
				}
				widths[i] += grow
				leftover -= grow
			}
		}
		for leftover > 0 {
			for i := 0; i < n && leftover > 0; i++ {
				if i == focused {
					continue
				}
				widths[i]++
				leftover--
			}
		}
		return widths
	}

	totalRequired := 0
	for _, w := range required {
		totalRequired += w
	}

	if totalRequired <= available {
		copy(widths, required)
		extra := available - totalRequired
		for i := 0; i < n && extra > 0; i++ {
			growth := (required[i] * extra) / totalRequired
			if growth > extraGrowthCap {
				growth = extraGrowthCap
			}
			widths[i] += growth
			extra -= growth
		}
		for i := 0; i < n && extra > 0; i++ {
			widths[i]++
			extra--
		}
		return widths
	}

	for i := 0; i < n; i++ {
		w := (required[i] * available) / totalRequired
		if w < columnFloor(i) {
			w = columnFloor(i)
		}
		widths[i] = w
	}
	return widths
}
