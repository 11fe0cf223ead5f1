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
	// Empty variables count as unset.
	for key := range defaults {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, "static", cfg.SuggestionBackend)
	assert.Equal(t, 15*time.Second, cfg.SuggestionTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/journal.db")
	t.Setenv("SESSION_STORE", "cookie")
	t.Setenv("SUGGESTION_BACKEND", "openai")
	t.Setenv("SUGGESTION_TIMEOUT", "3s")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/journal.db", cfg.DBPath)
	assert.Equal(t, "cookie", cfg.SessionStore)
	assert.Equal(t, "openai", cfg.SuggestionBackend)
	assert.Equal(t, 3*time.Second, cfg.SuggestionTimeout)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DB_DRIVER", "oracle"},
		{"SESSION_STORE", "memcached"},
		{"SUGGESTION_BACKEND", "magic"},
		{"MAX_UPLOAD_BYTES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_EnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "PORT: \"7070\"\nDB_DRIVER: postgres\nOPENAI_MODEL: gpt-4o-mini\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
