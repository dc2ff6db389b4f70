package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubLookPath(t *testing.T, present ...string) {
	t.Helper()
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	lookPath = func(name string) (string, error) {
		for _, p := range present {
			if p == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func stubRunQuery(t *testing.T, satisfied map[string]bool) *[][]string {
	t.Helper()
	orig := runQuery
	t.Cleanup(func() { runQuery = orig })

	var calls [][]string
	runQuery = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		// By convention the package name is the last argument.
		if satisfied[args[len(args)-1]] {
			return nil
		}
		return errors.New("exit status 1")
	}
	return &calls
}

func TestCommand(t *testing.T) {
	stubLookPath(t, "git")

	assert.True(t, Command("git"))
	assert.False(t, Command("not-installed-anywhere"))
}

func TestOSPackagePresent(t *testing.T) {
	stubLookPath(t, "dpkg")
	calls := stubRunQuery(t, map[string]bool{"libssl-dev": true})

	assert.True(t, OSPackage("libssl-dev", "dpkg", "-s"))
	assert.Equal(t, [][]string{{"dpkg", "-s", "libssl-dev"}}, *calls)
}

func TestOSPackageAbsent(t *testing.T) {
	stubLookPath(t, "dpkg")
	stubRunQuery(t, nil)

	assert.False(t, OSPackage("libnope", "dpkg", "-s"))
}

func TestOSPackageQueryToolMissing(t *testing.T) {
	// "Query tool itself absent" and "not found" are the same answer:
	// unsatisfied, never a failure.
	stubLookPath(t)
	calls := stubRunQuery(t, map[string]bool{"libssl-dev": true})

	assert.False(t, OSPackage("libssl-dev", "dpkg", "-s"))
	assert.Empty(t, *calls, "query must not run when its tool is absent")
}
