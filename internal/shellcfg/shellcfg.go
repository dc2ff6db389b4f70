// Package shellcfg manages the user's shell startup configuration: rendering
// the rc file from an immutable template, taking a timestamped backup of any
// pre-existing file first, and appending individual activation lines without
// duplicating them.
package shellcfg

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"devstrap/internal/logger"
)

// DefaultTemplate is the rc content rendered when the config declares none.
// The theme and alias content itself is configuration data; only the
// mechanics of applying it are interesting here.
const DefaultTemplate = `# Managed by devstrap. Local changes survive in the timestamped backup.
export EDITOR=vim
export PATH="$HOME/.local/bin:$HOME/bin:$PATH"

alias ll='ls -alF'
alias gs='git status'
alias gd='git diff'

# History behaviour
HISTSIZE=10000
SAVEHIST=10000
setopt SHARE_HISTORY 2>/dev/null || true
`

// now is swapped out by tests that assert on the backup filename.
var now = time.Now

// detectShell identifies the interactive shell from the SHELL environment
// variable, defaulting to zsh when it is unset or unrecognized.
func detectShell() string {
	shell := os.Getenv("SHELL")
	logger.Debug("[DEBUG] Detected shell environment: %s\n", shell)

	if strings.Contains(shell, "zsh") {
		return "zsh"
	} else if strings.Contains(shell, "bash") {
		return "bash"
	}
	return "zsh"
}

// RCPath returns the startup file of the detected interactive shell inside
// the given home directory.
func RCPath(home string) string {
	shellrcMap := map[string]string{
		"zsh":  ".zshrc",
		"bash": ".bashrc",
	}
	return filepath.Join(home, shellrcMap[detectShell()])
}

// Render writes content to rcPath wholesale. When a file already exists at
// rcPath, a timestamped byte-identical copy is created beside it first. The
// new content lands in a temporary file in the same directory and is renamed
// into place, so an interrupted run never leaves a partial rc file.
// Returns the backup path, or "" when there was nothing to back up.
func Render(rcPath, content string) (string, error) {
	backup, err := backupExisting(rcPath)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(rcPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(rcPath)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp rc file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write rc content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp rc file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, rcPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move rc file into place: %w", err)
	}

	logger.Info("[INFO] Wrote shell configuration to %s\n", rcPath)
	return backup, nil
}

// backupExisting copies an existing file to <path>.<unix-timestamp>.bak in
// the same directory. A missing original needs no backup.
func backupExisting(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read existing %s: %w", path, err)
	}

	backup := fmt.Sprintf("%s.%d.bak", path, now().Unix())
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", backup, err)
	}
	logger.Info("[INFO] Backed up existing %s to %s\n", path, backup)
	return backup, nil
}

// AppendLineOnce appends line to rcPath unless an identical (trimmed) line is
// already present. Returns true when the line was added. Activation lines for
// the version manager go through here so repeat runs do not stack them.
func AppendLineOnce(rcPath, line string) (bool, error) {
	line = strings.TrimSpace(line)

	existing := make(map[string]bool)
	if f, err := os.Open(rcPath); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			existing[strings.TrimSpace(scanner.Text())] = true
		}
		_ = f.Close()
	}
	if existing[line] {
		logger.Debug("[DEBUG] Line already present in %s: %s\n", rcPath, line)
		return false, nil
	}

	file, err := os.OpenFile(rcPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("unable to open %s for appending: %w", rcPath, err)
	}
	defer file.Close()

	if _, err := file.WriteString(line + "\n"); err != nil {
		return false, fmt.Errorf("failed to append to %s: %w", rcPath, err)
	}
	logger.Info("[INFO] Added line to %s: %s\n", rcPath, line)
	return true, nil
}

// EnsureDirs creates each directory (relative paths are under home) if it
// does not exist yet.
func EnsureDirs(home string, dirs []string) error {
	for _, dir := range dirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(home, dir)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		logger.Debug("[DEBUG] Ensured directory %s\n", dir)
	}
	return nil
}
