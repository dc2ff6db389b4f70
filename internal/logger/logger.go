package logger

import (
	"github.com/fatih/color" // Colored console output for log levels
)

// Colorized printing functions for the different log levels, built on
// fatih/color. These are package-level variables holding functions that behave
// like fmt.Printf but write text colored for the level.

// Info logs informational messages in green.
// Used for successful installs and normal progress output.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta.
// Used for skippable failures: an optional service that would not start,
// an invalid selector token, a single language package that failed.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red.
// Used for fatal conditions that end the provisioning run.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan when enabled, otherwise is a no-op.
// It is assigned during Init based on the --debug flag so that disabled debug
// logging costs nothing at the call sites.
var Debug func(format string, a ...any)

// Init enables or disables debug logging. It must be called before any
// command runs; the cobra PersistentPreRun hook does this.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}

func init() {
	// Commands always call Init, but package-level code and tests may log
	// before that happens.
	Init(false)
}
