// Package probe implements the process-table liveness check and the
// debounce gate that turns individual check results into a health verdict.
//
// The check is deliberately weak: it answers "is a process matching this
// name present", not "is the service able to serve requests". A process
// that is alive but wedged is reported healthy. Readiness is a separate
// concern served by the HTTP /ready endpoint.
package probe

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Check reports whether a process whose command line matches pattern is
// present in the process table. The calling process is excluded so a
// short-lived probe command never matches itself.
func Check(ctx context.Context, pattern string) (bool, error) {
	pids, err := MatchingPIDs(ctx, pattern, false)
	if err != nil {
		return false, err
	}
	return len(pids) > 0, nil
}

// MatchingPIDs scans /proc and returns the PIDs whose command line contains
// pattern. When includeSelf is false the calling PID is skipped.
func MatchingPIDs(ctx context.Context, pattern string, includeSelf bool) ([]int, error) {
	self := os.Getpid()

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	var pids []int
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if !includeSelf && pid == self {
			continue
		}
		if processMatches(pid, pattern) {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

// processMatches checks the cmdline (falling back to comm for kernel
// threads and zombies) of the given pid against pattern.
func processMatches(pid int, pattern string) bool {
	base := filepath.Join("/proc", strconv.Itoa(pid))

	// cmdline is NUL-separated; processes that have exited or are kernel
	// threads expose an empty cmdline.
	data, err := os.ReadFile(filepath.Join(base, "cmdline"))
	if err == nil && len(data) > 0 {
		cmdline := strings.ReplaceAll(string(data), "\x00", " ")
		return strings.Contains(cmdline, pattern)
	}

	comm, err := os.ReadFile(filepath.Join(base, "comm"))
	if err != nil {
		return false
	}
	return strings.Contains(strings.TrimSpace(string(comm)), pattern)
}

// EffectiveUID returns the numeric user ID the process runs as. The
// deployment contract requires a non-root identity; callers log and expose
// this at startup.
func EffectiveUID() int {
	return os.Geteuid()
}

// IsRoot reports whether the process runs with the highest-privilege identity.
func IsRoot() bool {
	return os.Geteuid() == 0
}
