package ghrelease

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"devstrap/internal/logger"
)

// runCommand is swapped out by tests so the elevated install step can be
// observed without sudo.
var runCommand = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// downloadFile fetches the content at url into destPath.
func downloadFile(url, destPath string) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != 200 {
		return fmt.Errorf("GET %s: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close destination file: %v\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded %s to %s\n", url, destPath)
	return nil
}

// findBinary locates the released binary under the extraction root: a regular
// file whose base name matches and whose mode carries an execute bit. Release
// archives place the binary either at the top level or inside a single
// versioned folder, so a full walk covers both.
func findBinary(root, name string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		// Single-file extraction: the archive held just the binary.
		return root, nil
	}

	var found string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Base(path), name) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if fi.Mode().IsRegular() && fi.Mode().Perm()&0111 != 0 {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no executable named %s found under %s", name, root)
	}
	logger.Debug("[DEBUG] Found extracted binary: %s\n", found)
	return found, nil
}

// installBinary moves the extracted binary into the system-wide executable
// directory. That directory requires elevated privilege, so the copy happens
// through `sudo install`, which also sets the executable mode.
func installBinary(src, name string) error {
	dst := filepath.Join(installDir, name)
	logger.Debug("[DEBUG] Running command: sudo install -m 0755 %s %s\n", src, dst)

	output, err := runCommand("sudo", "install", "-m", "0755", src, dst)
	if err != nil {
		return fmt.Errorf("failed to install %s to %s: %w\nOutput: %s", name, dst, err, output)
	}
	return nil
}
