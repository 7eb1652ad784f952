package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"MODELKEEPER_HOST",
	"MODELKEEPER_PORT",
	"MODELKEEPER_DATA_DIR",
	"MODELKEEPER_STORAGE",
	"MODELKEEPER_DB_PATH",
	"MODELKEEPER_LOG_LEVEL",
	"HOST",
	"PORT",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.ListenAddr())
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, filepath.Join("data", "modelkeeper.db"), cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("MODELKEEPER_HOST", "127.0.0.1")
	t.Setenv("MODELKEEPER_PORT", "9090")
	t.Setenv("MODELKEEPER_DATA_DIR", "/var/lib/modelkeeper")
	t.Setenv("MODELKEEPER_STORAGE", "SQLite")
	t.Setenv("MODELKEEPER_DB_PATH", "/tmp/test.db")
	t.Setenv("MODELKEEPER_LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr())
	assert.Equal(t, "/var/lib/modelkeeper", cfg.DataDir)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_DBPathFollowsDataDir(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("MODELKEEPER_DATA_DIR", "/srv/data")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/data", "modelkeeper.db"), cfg.DBPath)
}

// TestLoad_PlainHostPort verifies the unprefixed HOST and PORT variables
// used by container platforms are honoured.
func TestLoad_PlainHostPort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("HOST", "10.0.0.5")
	t.Setenv("PORT", "3000")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:3000", cfg.ListenAddr())
}

func TestLoad_PrefixedWinsOverPlain(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("MODELKEEPER_PORT", "4000")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric port", key: "MODELKEEPER_PORT", value: "http"},
		{name: "port out of range", key: "MODELKEEPER_PORT", value: "70000"},
		{name: "zero port", key: "PORT", value: "0"},
		{name: "unknown storage", key: "MODELKEEPER_STORAGE", value: "postgres"},
		{name: "unknown log level", key: "MODELKEEPER_LOG_LEVEL", value: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolateConfigEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("MODELKEEPER_PORT=7000\nMODELKEEPER_DATA_DIR=from-dotenv\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("MODELKEEPER_DATA_DIR", "from-env")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "from-env", cfg.DataDir, "real env vars take precedence over .env")
}
