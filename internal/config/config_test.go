package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gandalfthegui/dotenv/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dotenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, &config.Config{
		Path:       ".env",
		EnvKey:     "APP_ENV",
		DefaultEnv: "dev",
		Override:   false,
		LogLevel:   "info",
	}, cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, "path: config/.env\nenv_key: STAGE\ndefault_env: prod\noverride: true\nlog_level: debug\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "config/.env", cfg.Path)
	assert.Equal(t, "STAGE", cfg.EnvKey)
	assert.Equal(t, "prod", cfg.DefaultEnv)
	assert.True(t, cfg.Override)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "env_key: STAGE\n")
	t.Setenv("DOTENV_ENV_KEY", "RUNTIME_ENV")
	t.Setenv("DOTENV_OVERRIDE", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "RUNTIME_ENV", cfg.EnvKey)
	assert.True(t, cfg.Override)
}

func TestLoadMissingNamedFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		field   string
	}{
		{"bad env key", "env_key: 1BAD\n", "EnvKey"},
		{"bad log level", "log_level: chatty\n", "LogLevel"},
		{"empty path", "path: \"\"\n", "Path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}
