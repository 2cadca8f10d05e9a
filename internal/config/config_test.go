package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, DrafterTemplate, cfg.Drafter)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasktalk.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
port: 9000
log_level: debug
storage_backend: sqlite
database_dsn: /tmp/tasktalk.db
shutdown_timeout: 3s
`), 0o600))

	t.Setenv("TASKTALK_PORT", "9100")

	cfg, err := load(file)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, StorageSQLite, cfg.StorageBackend)
	assert.Equal(t, "/tmp/tasktalk.db", cfg.DatabaseDSN)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":        {"TASKTALK_STORAGE_BACKEND": "mongo"},
		"postgres without dsn":   {"TASKTALK_STORAGE_BACKEND": "postgres"},
		"firestore without gcp":  {"TASKTALK_STORAGE_BACKEND": "firestore"},
		"vertex without project": {"TASKTALK_DRAFTER": "vertex"},
		"gcp without project":    {"TASKTALK_MODE": "gcp"},
		"unknown mode":           {"TASKTALK_MODE": "cloud"},
		"bad port":               {"TASKTALK_PORT": "0"},
	}

	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
