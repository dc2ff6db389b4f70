package extras

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devstrap/internal/config"
	"devstrap/internal/pkgmgr"
	"devstrap/internal/report"
)

func recordCommands(t *testing.T, failOn string) *[][]string {
	t.Helper()
	orig := runCommand
	t.Cleanup(func() { runCommand = orig })

	var calls [][]string
	runCommand = func(name string, args ...string) ([]byte, error) {
		calls = append(calls, append([]string{name}, args...))
		for _, a := range args {
			if failOn != "" && a == failOn {
				return []byte("unit not found"), errors.New("exit status 1")
			}
		}
		return nil, nil
	}
	return &calls
}

// satisfiedManager returns a manager for which the command probe always
// reports the target present ("sh" resolves everywhere), so only the
// post-install service step runs.
func satisfiedManager(t *testing.T) (*pkgmgr.Manager, config.Database) {
	t.Helper()
	mgr, err := pkgmgr.Detect()
	if err != nil {
		t.Skip("no package manager on this host")
	}
	db := config.Database{
		Package: config.Package{Name: "sh"},
		Service: "sh-unit",
	}
	return mgr, db
}

func TestInstallDatabaseSkipsSatisfiedAndEnablesService(t *testing.T) {
	mgr, db := satisfiedManager(t)
	calls := recordCommands(t, "")

	results := InstallDatabase(mgr, db)
	require.Len(t, results, 2)
	assert.Equal(t, report.StatusSkipped, results[0].Status)
	assert.Equal(t, report.StatusInstalled, results[1].Status)

	// The only command is the service activation; the satisfied probe must
	// not trigger an install.
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"sudo", "systemctl", "enable", "--now", "sh-unit"}, (*calls)[0])
}

func TestInstallDatabaseServiceFailureIsIsolated(t *testing.T) {
	// A failed service activation (no systemd inside a container) is its own
	// failed result; the install result before it stands.
	mgr, db := satisfiedManager(t)
	recordCommands(t, "sh-unit")

	results := InstallDatabase(mgr, db)
	require.Len(t, results, 2)
	assert.Equal(t, report.StatusSkipped, results[0].Status)
	assert.Equal(t, report.StatusFailed, results[1].Status)
	assert.Contains(t, results[1].Error, "sh-unit")
}
