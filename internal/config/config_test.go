package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv registers the restore; unset so envDefault values apply.
	for _, key := range []string{
		"REVIEWDECK_GITHUB_TOKEN",
		"REVIEWDECK_SECRET_KEY",
		"REVIEWDECK_DB_PATH",
		"REVIEWDECK_LOG_LEVEL",
		"REVIEWDECK_HTTP_TIMEOUT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.GitHubToken)
	assert.Empty(t, cfg.SecretKey)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "reviewdeck.db", filepath.Base(cfg.DBPath))
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("REVIEWDECK_GITHUB_TOKEN", "ghp_env")
	t.Setenv("REVIEWDECK_SECRET_KEY", "hunter2")
	t.Setenv("REVIEWDECK_DB_PATH", "/tmp/custom.db")
	t.Setenv("REVIEWDECK_LOG_LEVEL", "debug")
	t.Setenv("REVIEWDECK_HTTP_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ghp_env", cfg.GitHubToken)
	assert.Equal(t, "hunter2", cfg.SecretKey)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestEncryptionKey(t *testing.T) {
	cfg := &Config{}
	assert.Nil(t, cfg.EncryptionKey())

	cfg.SecretKey = "hunter2"
	key := cfg.EncryptionKey()
	require.Len(t, key, 32)

	// Derivation is deterministic.
	assert.Equal(t, key, cfg.EncryptionKey())

	other := &Config{SecretKey: "different"}
	assert.NotEqual(t, key, other.EncryptionKey())
}

func TestEnsureDBDir(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{DBPath: filepath.Join(dir, "nested", "deep", "reviewdeck.db")}

	require.NoError(t, cfg.EnsureDBDir())
	assert.DirExists(t, filepath.Join(dir, "nested", "deep"))
}
