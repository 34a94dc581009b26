package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProjectFile is the per-project override looked up from the working directory.
const ProjectFile = ".graphlens.toml"

// Config holds graphlens configuration.
type Config struct {
	Display DisplayConfig `toml:"display"`
	Serve   ServeConfig   `toml:"serve"`
	History HistoryConfig `toml:"history"`
	Check   CheckConfig   `toml:"check"`
}

// DisplayConfig holds the initial radio-group choices.
type DisplayConfig struct {
	Mode   string `toml:"mode"`   // "directed", "undirected"
	Filter string `toml:"filter"` // "none", "in", "out"
	Dark   bool   `toml:"dark"`
}

// ServeConfig controls the live server.
type ServeConfig struct {
	Addr       string `toml:"addr"`
	DebounceMS int    `toml:"debounce_ms"`
}

// HistoryConfig controls the snapshot database.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // empty means DataDir()/history.db
}

// CheckConfig controls batch validation.
type CheckConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{Mode: "directed", Filter: "none"},
		Serve:   ServeConfig{Addr: "127.0.0.1:8765"},
		History: HistoryConfig{Enabled: true},
		Check:   CheckConfig{Concurrency: 4},
	}
}

// ConfigDir returns the graphlens config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "graphlens")
}

// DataDir returns the graphlens data directory path.
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "graphlens")
}

// HistoryPath resolves where the snapshot database lives.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(DataDir(), "history.db")
}

// Path is the global config file.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the global config and then the nearest project file on top
// of it. Missing or unreadable files leave defaults in place.
func Load() *Config {
	cfg := Default()

	if data, err := os.ReadFile(Path()); err == nil {
		_ = toml.Unmarshal(data, cfg)
	}
	if path := findProjectConfig(); path != "" {
		_, _ = toml.DecodeFile(path, cfg)
	}
	if cfg.Check.Concurrency < 1 {
		cfg.Check.Concurrency = 4
	}
	return cfg
}

// findProjectConfig walks up from the working directory looking for ProjectFile.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	path := Path()
	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}
	return Save(Default())
}
