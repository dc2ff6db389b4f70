package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadConfigSectionOverride(t *testing.T) {
	dir := t.TempDir()

	main := `config:
  packages_file: packages.yaml
`
	packages := `packages:
  - name: git
  - name: build-essential
    dnf: make
    pacman: base-devel
    probe: package
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(main), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "packages.yaml"), []byte(packages), 0644))

	cfg, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	// Declared section replaces the default one.
	require.Len(t, cfg.Packages, 2)
	assert.Equal(t, "git", cfg.Packages[0].Name)
	assert.Equal(t, "base-devel", cfg.Packages[1].Pacman)
	assert.Equal(t, "package", cfg.Packages[1].Probe)

	// Undeclared sections keep their defaults.
	assert.Equal(t, Defaults().Runtimes, cfg.Runtimes)
	assert.Equal(t, Defaults().Extras, cfg.Extras)
}

func TestLoadConfigExtrasInlinePackage(t *testing.T) {
	dir := t.TempDir()

	main := `config:
  extras_file: extras.yaml
`
	extrasYAML := `extras:
  databases:
    - name: redis
      apt: redis-server
      command: redis-server
      service: redis
  container:
    name: docker
    apt: docker.io
    service: docker
    group: docker
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(main), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extras.yaml"), []byte(extrasYAML), 0644))

	cfg, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	require.Len(t, cfg.Extras.Databases, 1)
	db := cfg.Extras.Databases[0]
	assert.Equal(t, "redis", db.Name)
	assert.Equal(t, "redis-server", db.Apt)
	assert.Equal(t, "redis", db.Service)

	assert.Equal(t, "docker.io", cfg.Extras.Container.Apt)
	assert.Equal(t, "docker", cfg.Extras.Container.Group)
}

func TestLoadConfigMalformedMainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDefaultsShape(t *testing.T) {
	cfg := Defaults()

	assert.NotEmpty(t, cfg.Packages)
	assert.NotEmpty(t, cfg.Binaries)
	assert.Len(t, cfg.Runtimes.Tools, 4)
	assert.Len(t, cfg.Extras.Databases, 4)
	assert.Equal(t, "docker", cfg.Extras.Container.Name)

	// The meta-package carries per-manager spellings and a database probe.
	var meta *Package
	for i := range cfg.Packages {
		if cfg.Packages[i].Name == "build-essential" {
			meta = &cfg.Packages[i]
		}
	}
	require.NotNil(t, meta)
	assert.Equal(t, "package", meta.Probe)
	assert.Equal(t, "base-devel", meta.Pacman)
}
