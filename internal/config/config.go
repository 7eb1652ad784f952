// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends selectable with MODELKEEPER_STORAGE.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Host     string
	Port     int
	DataDir  string
	Storage  string
	DBPath   string
	LogLevel slog.Level
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads configuration from environment variables and returns a validated Config.
// Variables from a .env file in the working directory are applied first
// without overriding variables already set in the environment.
// Optional variables with defaults: MODELKEEPER_HOST or HOST (0.0.0.0),
// MODELKEEPER_PORT or PORT (8000), MODELKEEPER_DATA_DIR (data),
// MODELKEEPER_STORAGE (file), MODELKEEPER_DB_PATH (<data dir>/modelkeeper.db),
// MODELKEEPER_LOG_LEVEL (info).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	host := firstEnv("0.0.0.0", "MODELKEEPER_HOST", "HOST")

	port := 8000
	if v := firstEnv("", "MODELKEEPER_PORT", "PORT"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 65535 {
			return nil, fmt.Errorf("MODELKEEPER_PORT has invalid port %q", v)
		}
		port = parsed
	}

	dataDir := "data"
	if v, ok := os.LookupEnv("MODELKEEPER_DATA_DIR"); ok && v != "" {
		dataDir = v
	}

	storage := StorageFile
	if v, ok := os.LookupEnv("MODELKEEPER_STORAGE"); ok && v != "" {
		storage = strings.ToLower(strings.TrimSpace(v))
	}
	if storage != StorageFile && storage != StorageSQLite {
		return nil, fmt.Errorf("MODELKEEPER_STORAGE has invalid backend %q: want %q or %q", storage, StorageFile, StorageSQLite)
	}

	dbPath := filepath.Join(dataDir, "modelkeeper.db")
	if v, ok := os.LookupEnv("MODELKEEPER_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("MODELKEEPER_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("MODELKEEPER_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		Host:     host,
		Port:     port,
		DataDir:  dataDir,
		Storage:  storage,
		DBPath:   dbPath,
		LogLevel: logLevel,
	}, nil
}

// firstEnv returns the first non-empty value among keys, or def.
func firstEnv(def string, keys ...string) string {
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
	}
	return def
}
