package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"time"
)

func CurrentUser() string {
	u, err := user.Current()
	if err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

func RunCommand(args []string, timeout time.Duration) (string, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("command timed out after %s: %v, stderr: %s", timeout, err, stderr.String())
	}
	if err != nil {
		return "", fmt.Errorf("command failed: %v, stderr: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// SlurmSource talks to the scheduler through squeue and scontrol. It
// implements JobSource: any command failure degrades to an empty result, so
// a broken transport looks like an empty queue rather than a crash.
type SlurmSource struct {
	timeout time.Duration
}

func NewSlurmSource() *SlurmSource {
	return &SlurmSource{timeout: 10 * time.Second}
}

// ListOwnedJobIDs enumerates the user's queued and running job ids.
func (s *SlurmSource) ListOwnedJobIDs(username string) []string {
	out, err := RunCommand([]string{"squeue", "-u", username, "-h", "-o", "%i"}, s.timeout)
	if err != nil {
		return nil
	}
	return strings.Fields(out)
}

// ListAllPendingJobIDs enumerates every pending job id cluster-wide, not
// scoped to any user, for the priority ranking pass.
func (s *SlurmSource) ListAllPendingJobIDs() []string {
	out, err := RunCommand([]string{"squeue", "-h", "-t", "PD", "-o", "%i"}, s.timeout)
	if err != nil {
		return nil
	}
	return strings.Fields(out)
}

// FetchStatusBlob fetches the full scontrol status text for one job. An
// empty return means the job vanished between enumeration and lookup; the
// aggregator skips it.
func (s *SlurmSource) FetchStatusBlob(jobID string) string {
	out, err := RunCommand([]string{"scontrol", "show", "job", jobID}, s.timeout)
	if err != nil {
		return ""
	}
	return out
}
