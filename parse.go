package main

import (
	"strconv"
	"strings"
)

const (
	stateRunning = "RUNNING"
	statePending = "PENDING"
)

const (
	// gpuTypeNone is reported when no GPU resource was recognized at all.
	gpuTypeNone = "N/A"
	// gpuTypeGeneric is reported when a GPU count was found without a model name.
	gpuTypeGeneric = "generic"
)

// Job is one scheduler job as parsed from a single scontrol status blob.
// It is built fresh on every refresh and never mutated afterwards.
type Job struct {
	JobID     string
	JobName   string
	Account   string
	State     string
	Reason    string
	Runtime   string
	TimeLimit string
	GPUCount  int
	GPUType   string
	Priority  int
}

// IsRunning reports whether the scheduler considers the job running.
func (j Job) IsRunning() bool { return j.State == stateRunning }

// IsPending reports whether the scheduler considers the job pending.
func (j Job) IsPending() bool { return j.State == statePending }

// stripControlChars reduces a string to printable ASCII. Tabs become single
// spaces; every other control byte (including newlines) is dropped.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 32 && c <= 126:
			b.WriteByte(c)
		case c == '\t':
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// extractField finds the first "fieldName=" in a status blob and returns its
// sanitized value. The value runs to the next space, or failing that the next
// newline, or failing that the end of the blob. A missing field is an empty
// string, never an error.
func extractField(blob, fieldName string) string {
	pos := strings.Index(blob, fieldName+"=")
	if pos == -1 {
		return ""
	}
	rest := blob[pos+len(fieldName)+1:]

	end := strings.IndexByte(rest, ' ')
	if end == -1 {
		end = strings.IndexByte(rest, '\n')
	}
	if end == -1 {
		end = len(rest)
	}
	return stripControlChars(rest[:end])
}

// extractGPU pulls a (count, type) pair out of a TRES resource list such as
// "AllocTRES=cpu=4,mem=16G,gres/gpu:v100=4". The typed pattern
// "gres/gpu:TYPE=COUNT" is checked before the untyped "gres/gpu=COUNT" so the
// more specific form wins when both appear. Absent field or absent GPU token
// yields (0, "N/A").
func extractGPU(blob, fieldName string) (int, string) {
	fieldPos := strings.Index(blob, fieldName+"=")
	if fieldPos == -1 {
		return 0, gpuTypeNone
	}
	search := blob[fieldPos:]

	if p := strings.Index(search, "gres/gpu:"); p != -1 {
		typeStart := p + len("gres/gpu:")
		if eq := strings.IndexByte(search[typeStart:], '='); eq != -1 {
			gpuType := stripControlChars(search[typeStart : typeStart+eq])
			return parseResourceCount(search[typeStart+eq+1:]), gpuType
		}
	}

	if p := strings.Index(search, "gres/gpu="); p != -1 {
		return parseResourceCount(search[p+len("gres/gpu="):]), gpuTypeGeneric
	}

	return 0, gpuTypeNone
}

// parseResourceCount reads the leading count token, terminated by a space,
// comma, or newline. Unparsable or negative text coerces to 0.
func parseResourceCount(s string) int {
	end := strings.IndexAny(s, " ,\n")
	if end == -1 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseJob builds one job record from an scontrol status blob. Every
// malformed field degrades to its zero value; parsing never fails the record.
func parseJob(jobID, blob string) Job {
	job := Job{
		JobID:     jobID,
		JobName:   extractField(blob, "JobName"),
		Account:   extractField(blob, "Account"),
		State:     extractField(blob, "JobState"),
		Reason:    extractField(blob, "Reason"),
		Runtime:   extractField(blob, "RunTime"),
		TimeLimit: extractField(blob, "TimeLimit"),
	}

	if n, err := strconv.Atoi(extractField(blob, "Priority")); err == nil {
		job.Priority = n
	}

	// Running jobs only carry an allocation. Pending jobs may have a request
	// recorded before any allocation exists, or rarely a stale allocation from
	// a prior run, so they read ReqTRES first and fall back to AllocTRES.
	if job.State == stateRunning {
		job.GPUCount, job.GPUType = extractGPU(blob, "AllocTRES")
	} else {
		job.GPUCount, job.GPUType = extractGPU(blob, "ReqTRES")
		if job.GPUCount == 0 {
			job.GPUCount, job.GPUType = extractGPU(blob, "AllocTRES")
		}
	}

	return job
}
