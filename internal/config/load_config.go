package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"devstrap/internal/logger"
)

// LoadConfig reads the main config YAML and the referenced sub-configs:
// packages, binaries, runtimes, extras, and shell. Paths in the main file are
// resolved relative to it. A missing main file is not an error: the
// compiled-in fullstack defaults are returned so that zero-argument
// invocation works on a fresh machine. A present-but-malformed file is an
// error; silently provisioning the wrong set would be worse than stopping.
func LoadConfig(configFile string) (Config, error) {
	// mainConfig holds the paths to the individual section files
	mainConfig := struct {
		Config struct {
			PackagesFile string `yaml:"packages_file"`
			BinariesFile string `yaml:"binaries_file"`
			RuntimesFile string `yaml:"runtimes_file"`
			ExtrasFile   string `yaml:"extras_file"`
			ShellFile    string `yaml:"shell_file"`
		} `yaml:"config"`
	}{}

	raw, err := os.ReadFile(configFile)
	if err != nil {
		logger.Info("[INFO] No config file at %s. Using built-in fullstack defaults.\n", configFile)
		return Defaults(), nil
	}
	if err := yaml.Unmarshal(raw, &mainConfig); err != nil {
		return Config{}, err
	}

	// Start from the defaults and let each present section file replace its
	// section. An absent section file keeps the default section, matching the
	// zero-config behavior per section instead of all-or-nothing.
	cfg := Defaults()
	base := filepath.Dir(configFile)

	// ----- packages.yaml -----
	var packagesWrapper struct {
		Packages []Package `yaml:"packages"`
	}
	if ok, err := loadSection(base, mainConfig.Config.PackagesFile, &packagesWrapper); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Packages = packagesWrapper.Packages
	}

	// ----- binaries.yaml -----
	var binariesWrapper struct {
		Binaries []Binary `yaml:"binaries"`
	}
	if ok, err := loadSection(base, mainConfig.Config.BinariesFile, &binariesWrapper); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Binaries = binariesWrapper.Binaries
	}

	// ----- runtimes.yaml -----
	var runtimesWrapper struct {
		Runtimes Runtimes `yaml:"runtimes"`
	}
	if ok, err := loadSection(base, mainConfig.Config.RuntimesFile, &runtimesWrapper); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Runtimes = runtimesWrapper.Runtimes
	}

	// ----- extras.yaml -----
	var extrasWrapper struct {
		Extras Extras `yaml:"extras"`
	}
	if ok, err := loadSection(base, mainConfig.Config.ExtrasFile, &extrasWrapper); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Extras = extrasWrapper.Extras
	}

	// ----- shell.yaml -----
	var shellWrapper struct {
		Shell Shell `yaml:"shell"`
	}
	if ok, err := loadSection(base, mainConfig.Config.ShellFile, &shellWrapper); err != nil {
		return Config{}, err
	} else if ok {
		cfg.Shell = shellWrapper.Shell
	}

	return cfg, nil
}

// loadSection reads and unmarshals one referenced section file into out.
// Returns false when the path is empty or the file does not exist, which
// keeps the default section in place.
func loadSection(base, path string, out any) (bool, error) {
	if path == "" {
		return false, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("[DEBUG] Section file %s not readable (%v). Keeping defaults.\n", path, err)
		return false, nil
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}
