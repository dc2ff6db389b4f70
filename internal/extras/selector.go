// Package extras installs the opt-in components: database engines chosen
// through an interactive multi-select, and the container engine behind a
// yes-no prompt. Selected components run through the same probe-then-install
// pattern as everything else, followed by service activation.
package extras

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"devstrap/internal/config"
	"devstrap/internal/logger"
)

// Prompts take a shared *bufio.Reader rather than wrapping stdin themselves:
// a fresh reader per prompt would buffer ahead past its own line and swallow
// input meant for the next prompt when stdin is a pipe or here-doc.

// PromptYesNo prints a question and reads one line from in. Only "y" or "Y"
// accepts; every other input, including empty or unreadable, declines.
func PromptYesNo(in *bufio.Reader, question string) bool {
	fmt.Printf("%s [y/N]: ", question)

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

// ParseSelection turns a whitespace-separated line of 1-based choice numbers
// into indices, discarding duplicates. Non-numeric and out-of-range tokens
// are warned about and skipped; they never abort and never imply a default
// selection.
func ParseSelection(line string, max int) []int {
	var picks []int
	seen := make(map[int]bool)

	for _, token := range strings.Fields(line) {
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 || n > max {
			logger.Warn("[WARN] Ignoring invalid selection %q (choose 1-%d)\n", token, max)
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		picks = append(picks, n-1)
	}
	return picks
}

// SelectDatabases presents the numbered database menu and returns the chosen
// engines. An empty or fully invalid selection returns none.
func SelectDatabases(in *bufio.Reader, dbs []config.Database) []config.Database {
	if len(dbs) == 0 {
		return nil
	}

	fmt.Println("Select databases to install (space-separated numbers):")
	for i, db := range dbs {
		fmt.Printf("  %d) %s\n", i+1, db.Name)
	}
	fmt.Print("Selection: ")

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return nil
	}

	var chosen []config.Database
	for _, idx := range ParseSelection(line, len(dbs)) {
		chosen = append(chosen, dbs[idx])
	}
	return chosen
}
