package config

// Package represents a single OS-level target package.
//   - Name: Logical name, also the default spelling for every package manager.
//   - Apt/Dnf/Pacman: Per-manager spelling overrides; the same logical package
//     may be named differently across ecosystems (build-essential vs base-devel).
//   - Probe: How to decide the package is already satisfied. "command" resolves
//     Name (or Command) on the search path; "package" queries the active package
//     database, for targets that ship no standalone executable.
type Package struct {
	Name    string `yaml:"name"`
	Apt     string `yaml:"apt,omitempty"`
	Dnf     string `yaml:"dnf,omitempty"`
	Pacman  string `yaml:"pacman,omitempty"`
	Probe   string `yaml:"probe,omitempty"`   // "command" (default) or "package"
	Command string `yaml:"command,omitempty"` // probe command when it differs from Name
}

// Binary represents a tool installed from a GitHub release archive.
//   - Name: The binary name placed on the executable path.
//   - Repo: GitHub repository identifier, e.g. "jesseduffield/lazygit".
//   - Suffix: Archive extension when the release is not packaged as .tar.gz
//     (".zip", ".7z", ".tar.xz", ".tar.bz2").
type Binary struct {
	Name   string `yaml:"name"`
	Repo   string `yaml:"repo"`
	Suffix string `yaml:"suffix,omitempty"`
}

// Runtime represents a language runtime installed through the version manager.
//   - Name: Tool name as the version manager knows it (node, python, go, rust).
//   - Channel: Named release channel (lts, latest, stable). Channels are not
//     pins; a later run may resolve a different concrete version.
//   - Binary: Executable used by the existence probe (cargo for rust).
type Runtime struct {
	Name    string `yaml:"name"`
	Channel string `yaml:"channel"`
	Binary  string `yaml:"binary,omitempty"`
}

// LangPackage represents a global package in a language ecosystem.
// Command is the executable probed for; when empty the package is probed by
// asking the ecosystem's own package manager instead.
type LangPackage struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command,omitempty"`
}

// Runtimes groups everything delegated to the version manager and the
// language ecosystems' package managers.
type Runtimes struct {
	Tools []Runtime     `yaml:"tools"`
	Npm   []LangPackage `yaml:"npm"`
	Pip   []LangPackage `yaml:"pip"`
}

// Database represents an optional database engine offered by the selector.
// The embedded Package carries the per-manager spellings; Service is the unit
// enabled and started after a successful install.
type Database struct {
	Package `yaml:",inline"`
	Service string `yaml:"service"`
}

// Container represents the optional container engine.
// Group, when set, is the supplementary group the invoking user is added to.
type Container struct {
	Package `yaml:",inline"`
	Service string `yaml:"service"`
	Group   string `yaml:"group,omitempty"`
}

// Extras groups the opt-in components behind interactive prompts.
type Extras struct {
	Databases []Database `yaml:"databases"`
	Container Container  `yaml:"container"`
}

// Shell holds the shell configuration step's inputs.
//   - RCFile: Target rc file; empty means detect the shell and use its default.
//   - Template: Full rc file content rendered over any existing file (after a
//     timestamped backup). Empty means use the compiled-in template.
//   - Dirs: Configuration directories created empty if absent.
type Shell struct {
	RCFile   string   `yaml:"rc_file,omitempty"`
	Template string   `yaml:"template,omitempty"`
	Dirs     []string `yaml:"dirs,omitempty"`
}

// Config is the top-level structure returned after loading all YAML
// configuration files. It is the declared desired set the run reconciles
// against the machine.
type Config struct {
	Packages []Package
	Binaries []Binary
	Runtimes Runtimes
	Extras   Extras
	Shell    Shell
}
