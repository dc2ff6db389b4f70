package ghrelease

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devstrap/internal/config"
)

func TestDownloadURL(t *testing.T) {
	// The leading "v" stays in the tag path segment and is stripped only in
	// the filename. Byte-for-byte against the fixed template.
	url := DownloadURL("org/tool", "tool", "v1.2.3", "linux", "x86_64", ".tar.gz")
	assert.Equal(t,
		"https://github.com/org/tool/releases/download/v1.2.3/tool_1.2.3_linux_x86_64.tar.gz",
		url)

	// Repositories that package releases differently carry their archive
	// extension through unchanged.
	url = DownloadURL("org/tool", "tool", "v1.2.3", "linux", "x86_64", ".zip")
	assert.Equal(t,
		"https://github.com/org/tool/releases/download/v1.2.3/tool_1.2.3_linux_x86_64.zip",
		url)
}

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "amd64", want: "x86_64"},
		{in: "arm64", want: "aarch64"},
		// Unlisted spellings pass through; the resulting URL may simply not
		// exist, which the download step reports.
		{in: "riscv64", want: "riscv64"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArch(tt.in))
		})
	}
}

func TestLatestTagParsesReleaseJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/org/tool/releases/latest", r.URL.Path)
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{"tag_name":"v2.0.1","name":"Release 2.0.1","prerelease":false}`)
	}))
	defer srv.Close()

	orig := apiBase
	apiBase = srv.URL
	defer func() { apiBase = orig }()

	tag, err := LatestTag("org/tool")
	require.NoError(t, err)
	assert.Equal(t, "v2.0.1", tag)
}

func TestLatestTagErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name:    "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
		},
		{
			name:    "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "not json at all") },
		},
		{
			name:    "missing tag_name",
			handler: func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"name":"no tag"}`) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			orig := apiBase
			apiBase = srv.URL
			defer func() { apiBase = orig }()

			_, err := LatestTag("org/tool")
			assert.Error(t, err)
		})
	}
}

// writeTarGz builds a small release-style archive: a versioned top-level
// folder holding the executable and a license file.
func writeTarGz(t *testing.T, path, folder, binary string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	entries := []struct {
		name string
		mode int64
		body string
	}{
		{name: folder + "/LICENSE", mode: 0644, body: "MIT"},
		{name: folder + "/" + binary, mode: 0755, body: "#!/bin/sh\necho ok\n"},
	}
	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: e.name, Mode: e.mode, Size: int64(len(e.body)), Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
}

func TestExtractArchiveAndFindBinary(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "tool_1.2.3_linux_x86_64.tar.gz")
	writeTarGz(t, archive, "tool_1.2.3", "tool")

	extracted, err := ExtractArchive(archive, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tool_1.2.3"), extracted)

	bin, err := findBinary(extracted, "tool")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(extracted, "tool"), bin)
}

// writeZip builds the same release-style layout as writeTarGz, zipped.
func writeZip(t *testing.T, path, folder, binary string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	entries := []struct {
		name string
		mode os.FileMode
		body string
	}{
		{name: folder + "/LICENSE", mode: 0644, body: "MIT"},
		{name: folder + "/" + binary, mode: 0755, body: "#!/bin/sh\necho ok\n"},
	}
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		hdr.SetMode(e.mode)
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestExtractArchiveZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "tool_1.2.3_linux_x86_64.zip")
	writeZip(t, archive, "tool_1.2.3", "tool")

	extracted, err := ExtractArchive(archive, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tool_1.2.3"), extracted)

	bin, err := findBinary(extracted, "tool")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(extracted, "tool"), bin)
}

func TestExtractArchiveCompressedTarVariants(t *testing.T) {
	// Pre-built fixtures; each holds tool_1.2.3/{tool,LICENSE} with the
	// executable bit set on the tool.
	for _, name := range []string{
		"tool_1.2.3_linux_x86_64.tar.xz",
		"tool_1.2.3_linux_x86_64.tar.bz2",
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			extracted, err := ExtractArchive(filepath.Join("testdata", name), dir)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "tool_1.2.3"), extracted)

			bin, err := findBinary(extracted, "tool")
			require.NoError(t, err)
			body, err := os.ReadFile(bin)
			require.NoError(t, err)
			assert.Equal(t, "#!/bin/sh\necho ok\n", string(body))
		})
	}
}

func TestExtractArchiveRoutesSevenZip(t *testing.T) {
	// A truncated file is rejected by the 7z reader rather than falling
	// through to the unsupported-format error.
	dir := t.TempDir()
	archive := filepath.Join(dir, "tool.7z")
	require.NoError(t, os.WriteFile(archive, []byte("not a real archive"), 0644))

	_, err := ExtractArchive(archive, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7z archive")
}

func TestFindBinaryRejectsNonExecutables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool"), []byte("data"), 0644))

	_, err := findBinary(dir, "tool")
	assert.Error(t, err)
}

func TestExtractArchiveUnsupportedFormat(t *testing.T) {
	_, err := ExtractArchive("tool.rar", t.TempDir())
	assert.Error(t, err)
}

func TestInstallEndToEnd(t *testing.T) {
	// Serve both the release metadata and the archive from one test server.
	dir := t.TempDir()
	archive := filepath.Join(dir, "served.tar.gz")
	writeTarGz(t, archive, "devstrap-fake-tool_3.1.0", "devstrap-fake-tool")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repos/org/devstrap-fake-tool/releases/latest":
			fmt.Fprint(w, `{"tag_name":"v3.1.0"}`)
		case strings.HasPrefix(r.URL.Path, "/org/devstrap-fake-tool/releases/download/v3.1.0/devstrap-fake-tool_3.1.0_"):
			// Any platform token pair is fine; the URL shape itself is
			// covered by TestDownloadURL.
			http.ServeFile(w, r, archive)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	origAPI, origDL := apiBase, downloadBase
	apiBase, downloadBase = srv.URL, srv.URL
	defer func() { apiBase, downloadBase = origAPI, origDL }()

	// Capture the elevated install instead of running sudo.
	origRun := runCommand
	defer func() { runCommand = origRun }()
	var calls [][]string
	runCommand = func(name string, args ...string) ([]byte, error) {
		calls = append(calls, append([]string{name}, args...))
		return nil, nil
	}

	installed, err := Install(config.Binary{Name: "devstrap-fake-tool", Repo: "org/devstrap-fake-tool"})
	require.NoError(t, err)
	assert.True(t, installed)

	require.Len(t, calls, 1)
	assert.Equal(t, []string{"sudo", "install", "-m", "0755"}, calls[0][:4])
	assert.Equal(t, "/usr/local/bin/devstrap-fake-tool", calls[0][5])
}

func TestInstallUsesConfiguredSuffix(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "served.zip")
	writeZip(t, archive, "devstrap-fake-tool_3.1.0", "devstrap-fake-tool")

	var servedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repos/org/devstrap-fake-tool/releases/latest":
			fmt.Fprint(w, `{"tag_name":"v3.1.0"}`)
		case strings.HasPrefix(r.URL.Path, "/org/devstrap-fake-tool/releases/download/v3.1.0/"):
			servedPath = r.URL.Path
			http.ServeFile(w, r, archive)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	origAPI, origDL := apiBase, downloadBase
	apiBase, downloadBase = srv.URL, srv.URL
	defer func() { apiBase, downloadBase = origAPI, origDL }()

	origRun := runCommand
	defer func() { runCommand = origRun }()
	runCommand = func(name string, args ...string) ([]byte, error) { return nil, nil }

	installed, err := Install(config.Binary{
		Name:   "devstrap-fake-tool",
		Repo:   "org/devstrap-fake-tool",
		Suffix: ".zip",
	})
	require.NoError(t, err)
	assert.True(t, installed)
	assert.True(t, strings.HasSuffix(servedPath, ".zip"), "requested %s", servedPath)
}

func TestInstallSkipsWhenBinaryOnPath(t *testing.T) {
	origRun := runCommand
	defer func() { runCommand = origRun }()
	var calls [][]string
	runCommand = func(name string, args ...string) ([]byte, error) {
		calls = append(calls, append([]string{name}, args...))
		return nil, nil
	}

	// "sh" is always resolvable, so the probe short-circuits the install.
	installed, err := Install(config.Binary{Name: "sh", Repo: "org/sh"})
	require.NoError(t, err)
	assert.False(t, installed)
	assert.Empty(t, calls)
}
