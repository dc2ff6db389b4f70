// Package ghrelease installs single-binary tools from GitHub release
// archives: resolve the latest tag, build the download URL from the release
// naming convention, fetch into an ephemeral directory, extract, and place
// the binary on the system-wide executable path.
package ghrelease

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"devstrap/internal/config"
	"devstrap/internal/logger"
	"devstrap/internal/probe"
)

// Release is the subset of the GitHub release JSON response this installer
// needs. The tag is read from the documented schema rather than scraped out
// of the raw body, so correctness does not depend on incidental formatting.
type Release struct {
	TagName string `json:"tag_name"` // The release tag (e.g., v1.2.3)
}

// apiBase and installDir are variables so tests can point the resolver at an
// httptest server and the install step at a scratch directory.
var (
	apiBase      = "https://api.github.com"
	downloadBase = "https://github.com"
	installDir   = "/usr/local/bin"
)

// httpClient bounds every release query and archive download. A stalled
// registry must fail the step, not hang the run.
var httpClient = &http.Client{Timeout: 2 * time.Minute}

// LatestTag resolves the latest release tag of a repository through the
// GitHub REST endpoint.
func LatestTag(repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", apiBase, repo)
	logger.Debug("[DEBUG] Fetching latest release from URL: %s\n", url)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building release request for %s: %w", repo, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP GET error fetching latest release for %s: %w", repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("latest release fetch failed for %s: HTTP status %d", repo, resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to decode release JSON for %s: %w", repo, err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("release JSON for %s carries no tag_name", repo)
	}
	logger.Debug("[DEBUG] Latest release tag for %s: %s\n", repo, release.TagName)
	return release.TagName, nil
}

// normalizeArch maps Go's architecture names onto the spellings release
// archives use. Unlisted architectures pass through untouched; for them the
// computed URL simply may not exist, which the download step reports.
func normalizeArch(arch string) string {
	switch arch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	}
	return arch
}

// DownloadURL builds the archive URL from the fixed release naming
// convention. The tag keeps its leading "v" in the path segment; the version
// inside the filename has it stripped:
//
//	https://github.com/{repo}/releases/download/{tag}/{binary}_{version}_{os}_{arch}{suffix}
//
// suffix is the archive extension, ".tar.gz" for most repositories.
func DownloadURL(repo, binary, tag, osName, arch, suffix string) string {
	version := strings.TrimPrefix(tag, "v")
	return fmt.Sprintf("%s/%s/releases/download/%s/%s_%s_%s_%s%s",
		downloadBase, repo, tag, binary, version, osName, arch, suffix)
}

// Install ensures the binary is on the executable search path.
// Probe first; when absent, resolve the latest tag, download the
// platform-matched archive into a temp dir, extract it, and move the binary
// into the system-wide bin directory with elevated privilege. The temp dir is
// removed unconditionally on completion.
//
// When the repository's naming convention differs from the assumed pattern
// the download fails with no fallback; that fragility is accepted.
func Install(bin config.Binary) (bool, error) {
	if probe.Command(bin.Name) {
		logger.Info("[INFO] %s already installed. Skipping.\n", bin.Name)
		return false, nil
	}

	tag, err := LatestTag(bin.Repo)
	if err != nil {
		return false, err
	}

	osName := runtime.GOOS
	arch := normalizeArch(runtime.GOARCH)
	suffix := bin.Suffix
	if suffix == "" {
		suffix = ".tar.gz"
	}
	url := DownloadURL(bin.Repo, bin.Name, tag, osName, arch, suffix)

	workDir, err := os.MkdirTemp("", "devstrap-"+bin.Name+"-*")
	if err != nil {
		return false, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() {
		if rerr := os.RemoveAll(workDir); rerr != nil {
			logger.Warn("[WARN] Failed to remove working directory %s: %v\n", workDir, rerr)
		}
	}()

	archivePath := filepath.Join(workDir, filepath.Base(url))
	logger.Info("[INFO] Downloading %s %s...\n", bin.Name, tag)
	if err := downloadFile(url, archivePath); err != nil {
		return false, fmt.Errorf("failed to download %s: %w", url, err)
	}

	extracted, err := ExtractArchive(archivePath, workDir)
	if err != nil {
		return false, fmt.Errorf("failed to extract %s: %w", archivePath, err)
	}

	binaryPath, err := findBinary(extracted, bin.Name)
	if err != nil {
		return false, err
	}

	if err := installBinary(binaryPath, bin.Name); err != nil {
		return false, err
	}

	logger.Info("[INFO] Installed %s to %s\n", bin.Name, filepath.Join(installDir, bin.Name))
	return true, nil
}
