// Package probe answers one question with no side effects: is a tool or
// package already present on this machine? Results are never cached; an
// install moments earlier may have changed the answer, so every call site
// re-derives it.
package probe

import (
	"io"
	"os/exec"

	"devstrap/internal/logger"
)

// lookPath and runQuery are swapped out by tests so probes can be exercised
// without touching the host system.
var (
	lookPath = exec.LookPath

	runQuery = func(name string, args ...string) error {
		cmd := exec.Command(name, args...)
		// Query output is noise; only the exit status matters.
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
		return cmd.Run()
	}
)

// Command reports whether an executable of the given name resolves on the
// search path. This is the probe for tools that ship a binary.
func Command(name string) bool {
	path, err := lookPath(name)
	if err != nil {
		logger.Debug("[DEBUG] Probe: %s not on PATH\n", name)
		return false
	}
	logger.Debug("[DEBUG] Probe: %s resolves to %s\n", name, path)
	return true
}

// OSPackage reports whether the active OS package database has a record for
// the given package, using the query command the detected package manager
// provides (dpkg -s, rpm -q, pacman -Qi). This is the probe for targets with
// no standalone executable.
//
// "Not found" and "query tool itself absent" are treated identically as
// unsatisfied: an absent query mechanism must never fail the run.
func OSPackage(pkg string, queryBin string, queryArgs ...string) bool {
	if _, err := lookPath(queryBin); err != nil {
		logger.Debug("[DEBUG] Probe: query tool %s not available, treating %s as unsatisfied\n", queryBin, pkg)
		return false
	}

	args := append(append([]string{}, queryArgs...), pkg)
	if err := runQuery(queryBin, args...); err != nil {
		logger.Debug("[DEBUG] Probe: %s has no record for %s\n", queryBin, pkg)
		return false
	}
	logger.Debug("[DEBUG] Probe: %s records %s as installed\n", queryBin, pkg)
	return true
}
