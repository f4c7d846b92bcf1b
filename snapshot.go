package main

import "sort"

// JobSource is the scheduler-facing collaborator. Transport failures surface
// as empty results, never as errors; the aggregator treats an empty status
// blob as "job vanished" and skips it.
type JobSource interface {
	ListOwnedJobIDs(username string) []string
	ListAllPendingJobIDs() []string
	FetchStatusBlob(jobID string) string
}

// Snapshot is the complete result of one refresh pass. A refresh builds a new
// Snapshot from scratch; the model swaps the whole value in, so readers only
// ever see a fully built snapshot.
type Snapshot struct {
	Username string

	// Jobs holds the user's own jobs in discovery order.
	Jobs []Job

	// AllPendingJobs holds every cluster-wide pending job with positive
	// priority, sorted by descending priority. It exists only to rank the
	// user's pending jobs against the whole queue and is never displayed
	// directly; the user's own pending jobs appear in both lists.
	AllPendingJobs []Job

	TotalJobs   int
	RunningJobs int
	PendingJobs int

	// DroppedJobs counts identifiers that were enumerated but whose status
	// fetch came back empty (the job finished or was cancelled between the
	// two calls). They contribute to no list and no other count.
	DroppedJobs int

	// GPUTypeCount sums allocated GPUs per type over running jobs;
	// GPUTypeRequested sums requested GPUs per type over pending jobs.
	GPUTypeCount     map[string]int
	GPUTypeRequested map[string]int
}

// refreshSnapshot performs one full fetch-and-parse pass. It never fails: the
// worst case for any single job is silent omission from the result.
func refreshSnapshot(src JobSource, username string) *Snapshot {
	snap := &Snapshot{
		Username:         username,
		GPUTypeCount:     map[string]int{},
		GPUTypeRequested: map[string]int{},
	}

	for _, id := range src.ListOwnedJobIDs(username) {
		blob := src.FetchStatusBlob(id)
		if blob == "" {
			snap.DroppedJobs++
			continue
		}

		job := parseJob(id, blob)
		snap.Jobs = append(snap.Jobs, job)

		switch job.State {
		case stateRunning:
			snap.RunningJobs++
			if job.GPUCount > 0 {
				snap.GPUTypeCount[job.GPUType] += job.GPUCount
			}
		case statePending:
			snap.PendingJobs++
			if job.GPUCount > 0 {
				snap.GPUTypeRequested[job.GPUType] += job.GPUCount
			}
		}
	}
	snap.TotalJobs = len(snap.Jobs)

	for _, id := range src.ListAllPendingJobIDs() {
		blob := src.FetchStatusBlob(id)
		if blob == "" {
			continue
		}
		if job := parseJob(id, blob); job.Priority > 0 {
			snap.AllPendingJobs = append(snap.AllPendingJobs, job)
		}
	}
	sort.SliceStable(snap.AllPendingJobs, func(i, j int) bool {
		return snap.AllPendingJobs[i].Priority > snap.AllPendingJobs[j].Priority
	})

	return snap
}

// HigherPriorityCount counts cluster-wide pending jobs whose priority
// strictly exceeds the given one. Linear over the global pending list, which
// is bounded by queue size and only walked on redraw.
func (s *Snapshot) HigherPriorityCount(priority int) int {
	count := 0
	for _, job := range s.AllPendingJobs {
		if job.Priority > priority {
			count++
		}
	}
	return count
}

// RunningSubset returns the user's running jobs in discovery order.
func (s *Snapshot) RunningSubset() []Job {
	var jobs []Job
	for _, j := range s.Jobs {
		if j.IsRunning() {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

// PendingSorted returns the user's pending jobs ordered by descending
// priority, the order the pending view displays them in.
func (s *Snapshot) PendingSorted() []Job {
	var jobs []Job
	for _, j := range s.Jobs {
		if j.IsPending() {
			jobs = append(jobs, j)
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Priority > jobs[j].Priority
	})
	return jobs
}

// gpuTypes returns the keys of a GPU tally in stable name order so the
// overview renders deterministically.
func gpuTypes(tally map[string]int) []string {
	types := make([]string, 0, len(tally))
	for t := range tally {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// totalGPUs sums a per-type GPU tally.
func totalGPUs(tally map[string]int) int {
	total := 0
	for _, n := range tally {
		total += n
	}
	return total
}
