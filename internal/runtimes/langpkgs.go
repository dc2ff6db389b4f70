package runtimes

import (
	"fmt"

	"devstrap/internal/config"
	"devstrap/internal/logger"
	"devstrap/internal/probe"
	"devstrap/internal/report"
)

// ecosystem describes one language package manager: how to probe a package
// that declares no command, and how to install globally.
type ecosystem struct {
	name        string
	queryArgs   func(pkg string) []string
	installArgs func(pkg string) []string
}

var npm = ecosystem{
	name:        "npm",
	queryArgs:   func(pkg string) []string { return []string{"ls", "-g", "--depth=0", pkg} },
	installArgs: func(pkg string) []string { return []string{"install", "-g", pkg} },
}

var pip = ecosystem{
	name:        "pip",
	queryArgs:   func(pkg string) []string { return []string{"show", pkg} },
	installArgs: func(pkg string) []string { return []string{"install", "--user", pkg} },
}

// InstallNpmPackages applies the probe-then-install pattern to the npm
// global package list.
func InstallNpmPackages(pkgs []config.LangPackage) []report.Result {
	return installAll(npm, pkgs)
}

// InstallPipPackages applies the probe-then-install pattern to the pip
// package list.
func InstallPipPackages(pkgs []config.LangPackage) []report.Result {
	return installAll(pip, pkgs)
}

// installAll iterates the declared list. A single package failure is reported
// and the rest of the list still runs; the orchestrator treats these results
// as warnings, not run-fatal errors.
func installAll(eco ecosystem, pkgs []config.LangPackage) []report.Result {
	results := make([]report.Result, 0, len(pkgs))

	if len(pkgs) > 0 && !probe.Command(eco.name) {
		// Without the ecosystem's package manager nothing in the list can be
		// reconciled; report the whole list as one failure.
		results = append(results, report.Failed(eco.name+"-package", "*",
			fmt.Errorf("%s not on PATH; runtime installation may need a new shell session", eco.name)))
		return results
	}

	for _, pkg := range pkgs {
		results = append(results, installOne(eco, pkg))
	}
	return results
}

func installOne(eco ecosystem, pkg config.LangPackage) report.Result {
	step := eco.name + "-package"

	satisfied := false
	if pkg.Command != "" {
		satisfied = probe.Command(pkg.Command)
	} else if _, err := runCommand(eco.name, eco.queryArgs(pkg.Name)...); err == nil {
		satisfied = true
	}
	if satisfied {
		logger.Info("[INFO] %s package %s already installed. Skipping.\n", eco.name, pkg.Name)
		return report.Skipped(step, pkg.Name, "already installed")
	}

	logger.Info("[INFO] Installing %s package %s...\n", eco.name, pkg.Name)
	output, err := runCommand(eco.name, eco.installArgs(pkg.Name)...)
	if err != nil {
		return report.Failed(step, pkg.Name,
			fmt.Errorf("%s install failed for %s: %w\nOutput: %s", eco.name, pkg.Name, err, output))
	}
	return report.Installed(step, pkg.Name, "installed globally")
}
