package models

// ProjectConfig is the per-project configuration loaded from the
// key=value config file in the working directory. Read once per
// invocation, never written back.
type ProjectConfig struct {
	Container   string
	Databases   []string
	User        string
	Password    string
	SafeRestore bool
	Files       []string
}

type GlobalConfig struct {
	Runtime RuntimeConfig `toml:"runtime" json:"runtime"`
}

type RuntimeConfig struct {
	Prefer     string `toml:"prefer" json:"prefer"`
	SocketPath string `toml:"socket_path" json:"socket_path"`
}
