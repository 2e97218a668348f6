package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile_Missing(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("mode = \"strict\"\n"), 0o644))

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, "strict", cfg.Mode)
	require.Equal(t, "auto", cfg.Color, "unset keys keep their defaults")
}

func TestLoadConfigFile_Full(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("color = \"never\"\nmode = \"slight-deviance\"\n"), 0o644))

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, Config{Color: "never", Mode: "slight-deviance"}, cfg)
}

func TestLoadConfigFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("mode = [unclosed\n"), 0o644))

	_, err := loadConfigFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config file")
}

func TestLoadConfigFile_InvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad color", "color = \"rainbow\"\n"},
		{"bad mode", "mode = \"lenient\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))
			_, err := loadConfigFile(path)
			require.Error(t, err)
		})
	}
}
