package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds CLI defaults loaded from the user's config file.
type Config struct {
	// Color is the default -color mode for show: "auto", "always", or "never".
	Color string `toml:"color"`
	// Mode is the default matching mode for apply: "strict" or
	// "slight-deviance".
	Mode string `toml:"mode"`
}

func defaultConfig() Config {
	return Config{Color: "auto", Mode: "slight-deviance"}
}

// loadConfig loads ~/.config/linepatch/config.toml. A missing file (or an
// undeterminable home directory) yields the defaults; an unreadable or
// malformed file is an error.
func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return defaultConfig(), nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg := defaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q (want auto, always, or never)", c.Color)
	}
	switch c.Mode {
	case "strict", "slight-deviance":
	default:
		return fmt.Errorf("invalid mode %q (want strict or slight-deviance)", c.Mode)
	}
	return nil
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "linepatch", "config.toml"), nil
}
