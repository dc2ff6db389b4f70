package extras

import (
	"fmt"
	"os/exec"
	"os/user"
	"strings"

	"devstrap/internal/config"
	"devstrap/internal/logger"
	"devstrap/internal/pkgmgr"
	"devstrap/internal/report"
)

// runCommand is swapped out by tests.
var runCommand = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// InstallDatabase installs one selected engine and enables its service.
// The service step is reported separately: on hosts without a service manager
// (containers, WSL without systemd) the package can still land while the
// activation fails as a warning, leaving sibling selections unaffected.
func InstallDatabase(mgr *pkgmgr.Manager, db config.Database) []report.Result {
	var results []report.Result

	installed, err := mgr.Install(db.Package)
	if err != nil {
		results = append(results, report.Failed("database", db.Name, err))
		return results
	}
	if installed {
		results = append(results, report.Installed("database", db.Name, "installed via "+mgr.Name))
	} else {
		results = append(results, report.Skipped("database", db.Name, "already installed"))
	}

	results = append(results, enableService(db.Name, db.Service))
	return results
}

// InstallContainer installs the container engine, enables its service, and
// adds the invoking user to the engine's group so it is usable without sudo
// after the next login.
func InstallContainer(mgr *pkgmgr.Manager, c config.Container) []report.Result {
	var results []report.Result

	installed, err := mgr.Install(c.Package)
	if err != nil {
		results = append(results, report.Failed("container", c.Name, err))
		return results
	}
	if installed {
		results = append(results, report.Installed("container", c.Name, "installed via "+mgr.Name))
	} else {
		results = append(results, report.Skipped("container", c.Name, "already installed"))
	}

	results = append(results, enableService(c.Name, c.Service))

	if c.Group != "" {
		results = append(results, addUserToGroup(c.Name, c.Group))
	}
	return results
}

// enableService enables and starts a systemd unit in one elevated call.
func enableService(target, service string) report.Result {
	logger.Debug("[DEBUG] Running command: sudo systemctl enable --now %s\n", service)
	output, err := runCommand("sudo", "systemctl", "enable", "--now", service)
	if err != nil {
		return report.Failed("service", target,
			fmt.Errorf("failed to enable service %s: %w\nOutput: %s", service, err, output))
	}
	return report.Installed("service", target, "enabled "+service)
}

func addUserToGroup(target, group string) report.Result {
	usr, err := user.Current()
	if err != nil {
		return report.Failed("group", target, fmt.Errorf("failed to get current user: %w", err))
	}

	// Already a member? Then there is nothing to change.
	if gids, err := usr.GroupIds(); err == nil {
		if g, err := user.LookupGroup(group); err == nil {
			for _, gid := range gids {
				if gid == g.Gid {
					return report.Skipped("group", target, usr.Username+" already in "+group)
				}
			}
		}
	}

	logger.Debug("[DEBUG] Running command: sudo usermod -aG %s %s\n", group, usr.Username)
	output, err := runCommand("sudo", "usermod", "-aG", group, usr.Username)
	if err != nil {
		return report.Failed("group", target,
			fmt.Errorf("failed to add %s to group %s: %w\nOutput: %s", usr.Username, group, err, strings.TrimSpace(string(output))))
	}
	return report.Installed("group", target, "added "+usr.Username+" to "+group)
}
