package config

// Defaults returns the compiled-in desired set: the standard fullstack
// toolchain provisioned when no config file is present. Every entry is still
// reconciled through its existence probe, so the defaults are safe to apply
// repeatedly on a machine that already has some of them.
func Defaults() Config {
	return Config{
		Packages: []Package{
			{Name: "git"},
			{Name: "curl"},
			{Name: "wget"},
			{Name: "unzip"},
			{Name: "tmux"},
			{Name: "jq"},
			{Name: "zsh"},
			// No standalone executable to probe for; ask the package database.
			{Name: "build-essential", Dnf: "make", Pacman: "base-devel", Probe: "package"},
		},
		Binaries: []Binary{
			{Name: "lazygit", Repo: "jesseduffield/lazygit"},
			{Name: "lazydocker", Repo: "jesseduffield/lazydocker"},
		},
		Runtimes: Runtimes{
			Tools: []Runtime{
				{Name: "node", Channel: "lts"},
				{Name: "python", Channel: "latest"},
				{Name: "go", Channel: "latest"},
				{Name: "rust", Channel: "stable", Binary: "cargo"},
			},
			Npm: []LangPackage{
				{Name: "typescript", Command: "tsc"},
				{Name: "ts-node"},
				{Name: "nodemon"},
				{Name: "eslint"},
				{Name: "prettier"},
				{Name: "yarn"},
				{Name: "pnpm"},
			},
			Pip: []LangPackage{
				{Name: "virtualenv"},
				{Name: "httpie", Command: "http"},
				{Name: "ipython"},
			},
		},
		Extras: Extras{
			Databases: []Database{
				{Package: Package{Name: "postgresql", Command: "psql"}, Service: "postgresql"},
				{Package: Package{Name: "mysql", Apt: "mysql-server", Dnf: "community-mysql-server", Pacman: "mariadb"}, Service: "mysql"},
				{Package: Package{Name: "redis", Apt: "redis-server", Command: "redis-server"}, Service: "redis"},
				{Package: Package{Name: "mongodb", Command: "mongod"}, Service: "mongod"},
			},
			Container: Container{
				Package: Package{Name: "docker", Apt: "docker.io", Dnf: "moby-engine"},
				Service: "docker",
				Group:   "docker",
			},
		},
		Shell: Shell{
			Dirs: []string{".config/devstrap", ".local/share/devstrap"},
		},
	}
}
