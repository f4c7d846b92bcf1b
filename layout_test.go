package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestTableColumnSets(t *testing.T) {
	snap := &Snapshot{}

	if n := len(tableColumns(viewRunning, snap)); n != 8 {
		t.Errorf("running view has %d columns, want 8", n)
	}
	if n := len(tableColumns(viewAll, snap)); n != 8 {
		t.Errorf("all view has %d columns, want 8", n)
	}
	if n := len(tableColumns(viewPending, snap)); n != 9 {
		t.Errorf("pending view has %d columns, want 9", n)
	}
}

func TestHigherColumnReadsGlobalRanking(t *testing.T) {
	snap := &Snapshot{
		AllPendingJobs: []Job{
			{Priority: 300},
			{Priority: 200},
			{Priority: 100},
		},
	}
	cols := tableColumns(viewPending, snap)
	higher := cols[len(cols)-1]
	if higher.Header != "Higher" {
		t.Fatalf("last pending column is %q, want Higher", higher.Header)
	}
	if got := higher.Cell(Job{Priority: 200}); got != "1" {
		t.Errorf("Higher cell for priority 200 = %q, want 1", got)
	}
	if got := higher.Cell(Job{Priority: 50}); got != "3" {
		t.Errorf("Higher cell for priority 50 = %q, want 3", got)
	}
}

func TestRequiredWidthUsesWidestValue(t *testing.T) {
	col := Column{Header: "JobName", Cell: func(j Job) string { return j.JobName }}
	jobs := []Job{
		{JobName: "short"},
		{JobName: "a_noticeably_longer_job_name"},
	}

	// Widest value plus one unit of padding.
	if got := requiredWidth(col, jobs); got != len("a_noticeably_longer_job_name")+1 {
		t.Errorf("requiredWidth = %d", got)
	}
}

func TestRequiredWidthCapped(t *testing.T) {
	col := Column{Header: "JobName", Cell: func(j Job) string { return j.JobName }}
	jobs := []Job{{JobName: strings.Repeat("x", 200)}}

	if got := requiredWidth(col, jobs); got != maxColumnWidth {
		t.Errorf("requiredWidth = %d, want %d", got, maxColumnWidth)
	}
}

func TestLayoutColumnsFitsWideTerminal(t *testing.T) {
	required := []int{8, 20, 10, 10, 10, 5, 10, 8}
	widths := layoutColumns(200, required, -1)

	budget := 200 - (len(required) - 1) - 2
	total := 0
	for i, w := range widths {
		if w < required[i] {
			t.Errorf("column %d narrower than required: %d < %d", i, w, required[i])
		}
		total += w
	}
	if total > budget {
		t.Errorf("widths total %d exceeds budget %d", total, budget)
	}
}

func TestLayoutColumnsOverBudgetRespectsFloors(t *testing.T) {
	required := []int{40, 40, 40, 40, 40, 40, 40, 40}
	widths := layoutColumns(80, required, -1)

	for i, w := range widths {
		if w < columnFloor(i) {
			t.Errorf("column %d = %d, below floor %d", i, w, columnFloor(i))
		}
	}
}

func TestLayoutColumnsFocused(t *testing.T) {
	required := []int{8, 30, 12, 12, 12, 5, 10, 8}
	width := 100
	focused := 1
	widths := layoutColumns(width, required, focused)

	available := width - (len(required) - 1) - 2
	if widths[focused] != required[focused]+2 {
		t.Errorf("focused width = %d, want %d", widths[focused], required[focused]+2)
	}

	// Focus mode spends the whole budget.
	total := 0
	for _, w := range widths {
		total += w
	}
	if total != available {
		t.Errorf("widths total %d, want %d", total, available)
	}
}

func TestLayoutColumnsFocusedNarrowTerminal(t *testing.T) {
	required := []int{8, 45, 12, 12, 12, 5, 10, 8}
	width := 40
	widths := layoutColumns(width, required, 1)

	available := width - (len(required) - 1) - 2
	if widths[1] != available {
		t.Errorf("focused width = %d, want the whole budget %d", widths[1], available)
	}
}

func TestLayoutColumnsDeterministic(t *testing.T) {
	required := []int{8, 20, 10, 10, 10, 5, 10, 8}

	first := layoutColumns(120, required, 3)
	second := layoutColumns(120, required, 3)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("layout not deterministic: %v vs %v", first, second)
	}
}

func TestLayoutColumnsEmpty(t *testing.T) {
	if widths := layoutColumns(80, nil, -1); len(widths) != 0 {
		t.Errorf("expected no widths, got %v", widths)
	}
}

func TestGPUTypeCell(t *testing.T) {
	if got := gpuTypeCell(Job{GPUCount: 4, GPUType: "v100"}); got != "v100" {
		t.Errorf("got %q, want v100", got)
	}
	if got := gpuTypeCell(Job{GPUCount: 0, GPUType: "h100"}); got != "N/A" {
		t.Errorf("got %q, want N/A for zero count", got)
	}
}
