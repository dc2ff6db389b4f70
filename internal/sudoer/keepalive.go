// Package sudoer keeps the session's elevated-privilege credentials warm so
// a long provisioning run does not stall mid-way on a password prompt.
package sudoer

import (
	"os"
	"os/exec"
	"time"

	"devstrap/internal/logger"
)

// refreshInterval is comfortably inside the default sudo timestamp timeout.
const refreshInterval = time.Minute

// StartKeepalive validates sudo credentials once (prompting if needed), then
// refreshes the cached timestamp in a detached background goroutine for the
// rest of the run. The goroutine has no synchronization with the main
// sequence and dies with the process.
func StartKeepalive() error {
	cmd := exec.Command("sudo", "-v")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return err
	}

	go func() {
		for range time.Tick(refreshInterval) {
			// -n: never prompt from the background; a failed refresh just
			// means the next elevated command may prompt again.
			if err := exec.Command("sudo", "-n", "-v").Run(); err != nil {
				logger.Debug("[DEBUG] sudo credential refresh failed: %v\n", err)
			}
		}
	}()
	return nil
}
