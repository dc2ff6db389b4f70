// Package runtimes delegates language runtime installation to the mise
// version manager, bootstrapping mise itself when absent, and installs global
// packages through each language ecosystem's own package manager.
package runtimes

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"devstrap/internal/config"
	"devstrap/internal/logger"
	"devstrap/internal/probe"
	"devstrap/internal/report"
	"devstrap/internal/shellcfg"
)

const (
	// bootstrapURL is the vendor-provided install script for mise. It is
	// piped into sh unverified, an accepted trust boundary of this tool.
	bootstrapURL = "https://mise.run"

	// activationLine enables mise in interactive shells. Appended to the rc
	// file once; repeat runs find it already present.
	activationLine = `eval "$(~/.local/bin/mise activate "$(basename "$SHELL")")"`
)

// runCommand is swapped out by tests.
var runCommand = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// miseBin resolves the mise executable: PATH first, then the install
// location the bootstrap script uses before the rc activation takes effect.
func miseBin() string {
	if probe.Command("mise") {
		return "mise"
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "bin", "mise")
}

// EnsureManager makes sure the version manager itself is installed and
// activated in the interactive shell. Bootstrap runs the vendor script
// through sh; activation is an idempotent rc file append.
func EnsureManager(rcPath string) report.Result {
	if probe.Command(miseBin()) {
		logger.Info("[INFO] mise already installed. Skipping bootstrap.\n")
		// Activation may still be missing if the rc file was rebuilt.
		if _, err := shellcfg.AppendLineOnce(rcPath, activationLine); err != nil {
			logger.Warn("[WARN] Could not ensure mise activation line: %v\n", err)
		}
		return report.Skipped("version-manager", "mise", "already installed")
	}

	logger.Info("[INFO] Bootstrapping mise from %s...\n", bootstrapURL)
	logger.Debug("[DEBUG] Running command: sh -c curl -fsSL %s | sh\n", bootstrapURL)
	output, err := runCommand("sh", "-c", fmt.Sprintf("curl -fsSL %s | sh", bootstrapURL))
	if err != nil {
		return report.Failed("version-manager", "mise",
			fmt.Errorf("mise bootstrap failed: %w\nOutput: %s", err, output))
	}

	if _, err := shellcfg.AppendLineOnce(rcPath, activationLine); err != nil {
		return report.Failed("version-manager", "mise", err)
	}
	return report.Installed("version-manager", "mise", "bootstrapped and activated")
}

// InstallRuntime installs one language runtime at its named channel through
// the version manager. Channels (lts, latest, stable) are not pins: a later
// run may resolve a different concrete version, which is accepted.
func InstallRuntime(rt config.Runtime) report.Result {
	binary := rt.Binary
	if binary == "" {
		binary = rt.Name
	}

	// The bridge is its own probe: if mise already resolves the runtime's
	// binary, the requested channel is considered satisfied.
	if output, err := runCommand(miseBin(), "which", binary); err == nil && strings.TrimSpace(string(output)) != "" {
		logger.Info("[INFO] Runtime %s already installed. Skipping.\n", rt.Name)
		return report.Skipped("runtime", rt.Name, "resolved by version manager")
	}

	spec := fmt.Sprintf("%s@%s", rt.Name, rt.Channel)
	logger.Info("[INFO] Installing runtime %s...\n", spec)
	logger.Debug("[DEBUG] Running command: %s use --global %s\n", miseBin(), spec)

	output, err := runCommand(miseBin(), "use", "--global", spec)
	if err != nil {
		return report.Failed("runtime", rt.Name,
			fmt.Errorf("failed to install %s: %w\nOutput: %s", spec, err, output))
	}
	return report.Installed("runtime", rt.Name, "channel "+rt.Channel)
}
