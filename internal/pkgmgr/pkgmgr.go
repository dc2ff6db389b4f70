// Package pkgmgr installs OS-level packages through whichever supported
// package manager is present, selected once per run in a fixed priority
// order. It is deliberately not a package manager itself: no dependency
// resolution, no version handling, one non-interactive install subcommand
// per target.
package pkgmgr

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"devstrap/internal/config"
	"devstrap/internal/logger"
	"devstrap/internal/probe"
)

// ErrNoManager is returned when none of the supported package managers is
// present. Provisioning cannot proceed on such a platform; the CLI maps this
// to its own distinct exit status.
var ErrNoManager = errors.New("no supported package manager found (apt-get, dnf, pacman)")

// Manager describes one supported OS package manager: how to detect it, how
// to install non-interactively with elevated privilege, and how to query its
// package database without side effects.
type Manager struct {
	Name        string   // identifier used for per-package name translation
	Bin         string   // executable probed for during detection
	InstallArgs []string // install subcommand, non-interactive
	QueryBin    string   // package database query tool
	QueryArgs   []string // query subcommand; package name is appended
}

// managers is the fixed priority list. Detection returns the first entry
// whose executable resolves; the order never changes between runs, so a
// machine with both apt-get and dnf always gets apt-get.
var managers = []Manager{
	{
		Name:        "apt",
		Bin:         "apt-get",
		InstallArgs: []string{"install", "-y"},
		QueryBin:    "dpkg",
		QueryArgs:   []string{"-s"},
	},
	{
		Name:        "dnf",
		Bin:         "dnf",
		InstallArgs: []string{"install", "-y"},
		QueryBin:    "rpm",
		QueryArgs:   []string{"-q"},
	},
	{
		Name:        "pacman",
		Bin:         "pacman",
		InstallArgs: []string{"-S", "--noconfirm"},
		QueryBin:    "pacman",
		QueryArgs:   []string{"-Qi"},
	},
}

// lookPath and runCommand are swapped out by tests.
var (
	lookPath = exec.LookPath

	runCommand = func(name string, args ...string) ([]byte, error) {
		return exec.Command(name, args...).CombinedOutput()
	}
)

// Detect selects exactly one package manager by probing the priority list.
// Returns ErrNoManager when none resolves.
func Detect() (*Manager, error) {
	for i := range managers {
		m := &managers[i]
		if _, err := lookPath(m.Bin); err == nil {
			logger.Debug("[DEBUG] Detected package manager: %s\n", m.Name)
			return m, nil
		}
		logger.Debug("[DEBUG] Package manager %s not present\n", m.Bin)
	}
	return nil, ErrNoManager
}

// PackageName translates a logical package into this manager's spelling,
// falling back to the logical name when no override is declared.
func (m *Manager) PackageName(pkg config.Package) string {
	switch m.Name {
	case "apt":
		if pkg.Apt != "" {
			return pkg.Apt
		}
	case "dnf":
		if pkg.Dnf != "" {
			return pkg.Dnf
		}
	case "pacman":
		if pkg.Pacman != "" {
			return pkg.Pacman
		}
	}
	return pkg.Name
}

// Satisfied runs the package's existence probe: the command strategy for
// tools, the package database strategy for libraries and meta-packages.
func (m *Manager) Satisfied(pkg config.Package) bool {
	if pkg.Probe == "package" {
		return probe.OSPackage(m.PackageName(pkg), m.QueryBin, m.QueryArgs...)
	}
	command := pkg.Command
	if command == "" {
		command = pkg.Name
	}
	return probe.Command(command)
}

// Install achieves the postcondition "package satisfied" for a single target.
// Probe first: a satisfied package is a no-op, reported as already present.
// Otherwise the manager's non-interactive install subcommand runs under sudo.
func (m *Manager) Install(pkg config.Package) (bool, error) {
	if m.Satisfied(pkg) {
		logger.Info("[INFO] %s already installed. Skipping.\n", pkg.Name)
		return false, nil
	}

	name := m.PackageName(pkg)
	args := append([]string{m.Bin}, m.InstallArgs...)
	args = append(args, name)

	logger.Info("[INFO] Installing %s via %s...\n", name, m.Name)
	logger.Debug("[DEBUG] Running command: sudo %s\n", strings.Join(args, " "))

	output, err := runCommand("sudo", args...)
	if err != nil {
		return false, fmt.Errorf("%s install failed for %s: %w\nOutput: %s", m.Name, name, err, output)
	}
	return true, nil
}
