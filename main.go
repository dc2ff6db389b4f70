package main

import (
	"devstrap/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The devstrap project is a fullstack workstation provisioning tool that:
//   - Reads a YAML configuration describing OS packages, GitHub-release binaries,
//     language runtimes, global language packages, and optional components, falling
//     back to a compiled-in fullstack toolchain when no config file is present
//   - Reconciles that desired set against the machine in one linear pass, probing
//     before every install so that a second run performs zero mutating actions
//   - Installs OS packages through whichever supported package manager is detected
//     (apt-get, dnf, or pacman, first match wins), release binaries from GitHub
//     release archives, and language runtimes through the mise version manager
//   - Optionally installs database engines and a container engine behind
//     interactive prompts, enabling their services afterwards
//   - Renders the user's shell configuration from a template, taking a timestamped
//     backup of any pre-existing file before overwriting it
//
// Error handling strategy:
//   - Every step reports an installed/skipped/failed outcome into a run report;
//     the orchestrator decides per step class whether a failure aborts the run
//     (missing package manager, OS package failure) or is logged and skipped
//     (a single language package, an optional service)
//   - The run ends with a color-coded summary of every outcome and a process
//     exit status reflecting the worst one
func main() {
	cmd.Execute()
}
