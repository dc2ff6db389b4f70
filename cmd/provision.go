package cmd

import (
	"bufio"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"devstrap/internal/config"
	"devstrap/internal/extras"
	"devstrap/internal/ghrelease"
	"devstrap/internal/logger"
	"devstrap/internal/pkgmgr"
	"devstrap/internal/report"
	"devstrap/internal/runtimes"
	"devstrap/internal/shellcfg"
	"devstrap/internal/sudoer"
)

// configPath holds the path to the main configuration YAML file.
// It's passed via the `--config` or `-c` flag.
var configPath string

// reportPath, when set, receives the machine-readable run report.
var reportPath string

// Exit statuses. An unsupported platform gets its own status so wrappers can
// tell "this machine cannot be provisioned" from "a step failed".
const (
	exitFailure   = 1
	exitNoManager = 2
)

// provisionCmd is the top-level command: one linear pass over every
// provisioning phase. Control flows detect platform, OS packages, release
// binaries, shell configuration, version manager and runtimes, language
// packages, optional components, then the verification summary. There is no
// feedback loop; a second invocation is safe because every step re-runs its
// existence probe.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision the machine (packages, binaries, runtimes, extras, shell)",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		mgr := detectManagerOrDie()
		rep := &report.Report{}

		if err := sudoer.StartKeepalive(); err != nil {
			logger.Warn("[WARN] Could not cache sudo credentials: %v\n", err)
		}

		// OS packages are the foundation; a failure here is fatal.
		if !runPackages(mgr, cfg.Packages, rep) {
			finish(rep, exitFailure)
		}
		runBinaries(cfg.Binaries, rep)

		// The rc file is rendered wholesale before any activation lines are
		// appended, so the render cannot wipe them afterwards.
		runShell(cfg.Shell, rep)

		if !runRuntimes(cfg.Runtimes, cfg.Shell, rep) {
			finish(rep, exitFailure)
		}
		runExtras(mgr, cfg.Extras, rep)

		finishAuto(rep)
	},
}

// provisionPackagesCmd reconciles only the OS package set.
var provisionPackagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Install only OS packages",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		mgr := detectManagerOrDie()
		rep := &report.Report{}

		if err := sudoer.StartKeepalive(); err != nil {
			logger.Warn("[WARN] Could not cache sudo credentials: %v\n", err)
		}

		if !runPackages(mgr, cfg.Packages, rep) {
			finish(rep, exitFailure)
		}
		finishAuto(rep)
	},
}

// provisionBinariesCmd installs only the GitHub-release binaries.
var provisionBinariesCmd = &cobra.Command{
	Use:   "binaries",
	Short: "Install only release binaries",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		rep := &report.Report{}

		runBinaries(cfg.Binaries, rep)
		finishAuto(rep)
	},
}

// provisionRuntimesCmd installs only the version manager, language runtimes,
// and global language packages.
var provisionRuntimesCmd = &cobra.Command{
	Use:   "runtimes",
	Short: "Install only language runtimes and global packages",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		rep := &report.Report{}

		if !runRuntimes(cfg.Runtimes, cfg.Shell, rep) {
			finish(rep, exitFailure)
		}
		finishAuto(rep)
	},
}

// provisionExtrasCmd runs only the optional-component prompts.
var provisionExtrasCmd = &cobra.Command{
	Use:   "extras",
	Short: "Install only optional databases and the container engine",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		mgr := detectManagerOrDie()
		rep := &report.Report{}

		if err := sudoer.StartKeepalive(); err != nil {
			logger.Warn("[WARN] Could not cache sudo credentials: %v\n", err)
		}

		runExtras(mgr, cfg.Extras, rep)
		finishAuto(rep)
	},
}

// provisionShellCmd applies only the shell configuration.
var provisionShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Apply only the shell configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfigOrDie()
		rep := &report.Report{}

		runShell(cfg.Shell, rep)
		finishAuto(rep)
	},
}

// runPackages reconciles the OS package set. Returns false on the first
// failed install; partial progress stays on the machine and the next run
// skips it via the probes.
func runPackages(mgr *pkgmgr.Manager, pkgs []config.Package, rep *report.Report) bool {
	for _, pkg := range pkgs {
		installed, err := mgr.Install(pkg)
		if err != nil {
			rep.Add(report.Failed("package", pkg.Name, err))
			return false
		}
		if installed {
			rep.Add(report.Installed("package", pkg.Name, "installed via "+mgr.Name))
		} else {
			rep.Add(report.Skipped("package", pkg.Name, "already installed"))
		}
	}
	return true
}

// runBinaries installs the release binaries. A failed binary is a warning;
// the remaining binaries still install.
func runBinaries(bins []config.Binary, rep *report.Report) {
	for _, bin := range bins {
		installed, err := ghrelease.Install(bin)
		if err != nil {
			logger.Warn("[WARN] Skipping binary %s: %v\n", bin.Name, err)
			rep.Add(report.Failed("binary", bin.Repo, err))
			continue
		}
		if installed {
			rep.Add(report.Installed("binary", bin.Repo, "installed "+bin.Name))
		} else {
			rep.Add(report.Skipped("binary", bin.Repo, "already installed"))
		}
	}
}

// runRuntimes bootstraps the version manager (fatal on failure: nothing
// downstream can work without it), then installs runtimes and language
// packages as warn-and-continue steps.
func runRuntimes(rt config.Runtimes, shell config.Shell, rep *report.Report) bool {
	rcPath := resolveRCPath(shell)

	if res := rep.Add(runtimes.EnsureManager(rcPath)); res.Status == report.StatusFailed {
		return false
	}
	for _, tool := range rt.Tools {
		if res := rep.Add(runtimes.InstallRuntime(tool)); res.Status == report.StatusFailed {
			logger.Warn("[WARN] Runtime %s failed: %v\n", tool.Name, res.Err)
		}
	}
	rep.AddAll(runtimes.InstallNpmPackages(rt.Npm))
	rep.AddAll(runtimes.InstallPipPackages(rt.Pip))
	return true
}

// runExtras prompts for the optional components and installs the selections.
// Everything here is opt-in, so failures are warnings by definition. Both
// prompts read from one shared buffered reader; separate readers would
// buffer ahead and swallow the selection line when stdin is not a terminal.
// A "declined" result is only recorded for prompts that were actually shown.
func runExtras(mgr *pkgmgr.Manager, ex config.Extras, rep *report.Report) {
	stdin := bufio.NewReader(os.Stdin)

	if len(ex.Databases) > 0 {
		if extras.PromptYesNo(stdin, "Install database engines?") {
			for _, db := range extras.SelectDatabases(stdin, ex.Databases) {
				rep.AddAll(extras.InstallDatabase(mgr, db))
			}
		} else {
			rep.Add(report.Skipped("database", "*", "declined"))
		}
	}

	if ex.Container.Name != "" {
		if extras.PromptYesNo(stdin, "Install the container engine ("+ex.Container.Name+")?") {
			rep.AddAll(extras.InstallContainer(mgr, ex.Container))
		} else {
			rep.Add(report.Skipped("container", ex.Container.Name, "declined"))
		}
	}
}

// runShell creates the configuration directories and renders the rc file from
// the template, backing up any existing file first.
func runShell(shell config.Shell, rep *report.Report) {
	home, err := os.UserHomeDir()
	if err != nil {
		rep.Add(report.Failed("shell", "home", err))
		return
	}

	if err := shellcfg.EnsureDirs(home, shell.Dirs); err != nil {
		logger.Warn("[WARN] %v\n", err)
		rep.Add(report.Failed("shell", "dirs", err))
	} else if len(shell.Dirs) > 0 {
		rep.Add(report.Installed("shell", "dirs", "configuration directories ensured"))
	}

	template := shell.Template
	if template == "" {
		template = shellcfg.DefaultTemplate
	}
	rcPath := resolveRCPath(shell)

	backup, err := shellcfg.Render(rcPath, template)
	if err != nil {
		logger.Warn("[WARN] Shell configuration failed: %v\n", err)
		rep.Add(report.Failed("shell", rcPath, err))
		return
	}
	detail := "rendered"
	if backup != "" {
		detail = "rendered, previous file backed up to " + backup
	}
	rep.Add(report.Installed("shell", rcPath, detail))
}

func resolveRCPath(shell config.Shell) string {
	if shell.RCFile != "" {
		return shell.RCFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return shellcfg.RCPath(home)
}

func loadConfigOrDie() config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("[ERROR] Failed to load configuration: %v\n", err)
		os.Exit(exitFailure)
	}
	return cfg
}

func detectManagerOrDie() *pkgmgr.Manager {
	mgr, err := pkgmgr.Detect()
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
		if errors.Is(err, pkgmgr.ErrNoManager) {
			os.Exit(exitNoManager)
		}
		os.Exit(exitFailure)
	}
	return mgr
}

// finishAuto ends the run with status 0 when nothing failed, 1 otherwise.
func finishAuto(rep *report.Report) {
	if rep.HasFailures() {
		finish(rep, exitFailure)
	}
	finish(rep, 0)
}

// finish prints the summary, writes the optional JSON report, and exits.
func finish(rep *report.Report, code int) {
	rep.Summary()
	if reportPath != "" {
		report.WriteJSON(reportPath, rep)
	}
	os.Exit(code)
}

// init sets up CLI flags and adds subcommands to the root command.
func init() {
	// Global flags shared by provision and its subcommands
	provisionCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
	provisionCmd.PersistentFlags().StringVar(&reportPath, "report", "", "Write a JSON run report to this path")

	// Add subcommands for more granular control
	provisionCmd.AddCommand(provisionPackagesCmd)
	provisionCmd.AddCommand(provisionBinariesCmd)
	provisionCmd.AddCommand(provisionRuntimesCmd)
	provisionCmd.AddCommand(provisionExtrasCmd)
	provisionCmd.AddCommand(provisionShellCmd)
	// Register the `provision` command with the root command
	rootCmd.AddCommand(provisionCmd)
}
