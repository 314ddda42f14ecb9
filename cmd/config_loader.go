package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tvx/pkg/settings"
)

// fileConfig is the schema of ~/.config/tvx/config.yaml. Pointer fields
// distinguish "unset" from an explicit false so flags and defaults merge
// correctly.
type fileConfig struct {
	Theme     string `yaml:"theme"`
	KeyMode   string `yaml:"key_mode"`
	SortKeys  *bool  `yaml:"sort_keys"`
	ShowUnits *bool  `yaml:"show_units"`
	NoColor   *bool  `yaml:"no_color"`
}

// resolveConfigPath returns the explicit path if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/tvx/config.yaml) or ~/.config/tvx/config.yaml if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// loadConfig reads and decodes the config file at path. An empty path means
// no config file exists and yields the zero config.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return cfg, nil
}
