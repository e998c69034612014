// Package config handles loading and saving mm configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/mm/config.yaml
//
// A project may also carry its own dataset in .mm/principles.yaml, found by
// walking up from the working directory (see discover.go).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DatasetConfig selects the principle table.
type DatasetConfig struct {
	Path  string `yaml:"path,omitempty"`  // YAML dataset; empty uses the embedded one
	Watch *bool  `yaml:"watch,omitempty"` // Reload the TUI when the file changes
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Mouse *bool  `yaml:"mouse,omitempty"` // Capture mouse clicks (default true)
	Theme string `yaml:"theme,omitempty"` // auto, dark, light
}

// ExportConfig holds defaults for static exports.
type ExportConfig struct {
	Dir   string `yaml:"dir,omitempty"`   // Directory for --export-all and the wizard
	Title string `yaml:"title,omitempty"` // Overrides the dataset title in exports
}

// ServeConfig configures the local preview server.
type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Config is the top-level configuration for mm.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
	Export  ExportConfig  `yaml:"export,omitempty"`
	Serve   ServeConfig   `yaml:"serve,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Theme: "auto",
		},
		Export: ExportConfig{
			Dir: "mindmap-export",
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:9010",
		},
	}
}

// MouseEnabled reports whether the TUI should capture the mouse.
func (c Config) MouseEnabled() bool {
	return c.UI.Mouse == nil || *c.UI.Mouse
}

// WatchEnabled reports whether a dataset file should be watched.
func (c Config) WatchEnabled() bool {
	return c.Dataset.Watch == nil || *c.Dataset.Watch
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.UI.Theme {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be auto, dark or light, got %q", c.UI.Theme)
	}
	return nil
}

// ConfigDir returns the XDG config directory for mm.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mm")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mm")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config: %w", err)
	}

	cfg.Dataset.Path = expandHome(cfg.Dataset.Path)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
