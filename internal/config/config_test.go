// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "authgate/cli/internal/errors"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"AUTHGATE_LOG_LEVEL", "AUTHGATE_VERBOSE", "AUTHGATE_APP_NAME", "AUTHGATE_APP_PROJECT_ID",
		"AUTHGATE_STORAGE_BACKEND", "AUTHGATE_STORAGE_POSTGRES_DSN", "AUTHGATE_STORAGE_TABLE", "AUTHGATE_PERSISTENCE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	c, err := Load(WithEnvFile(filepath.Join(dir, "missing.env")))
	require.NoError(t, err)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, BackendKeychain, c.Storage.Backend)
	assert.Equal(t, PersistenceStorage, c.Persistence)
	assert.Empty(t, c.App.ProjectID)
	assert.NoError(t, c.Validate())
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	file := filepath.Join(dir, "config.json")
	require.NoError(t, SaveTo(file, Config{
		LogLevel:    "info",
		App:         AppConfig{Name: "cli", ProjectID: "from-file"},
		Storage:     StorageConfig{Backend: BackendFile},
		Persistence: PersistenceStorage,
	}))

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("AUTHGATE_APP_PROJECT_ID=from-dotenv\nAUTHGATE_STORAGE_BACKEND=memory\n"), 0o600))
	t.Setenv("AUTHGATE_STORAGE_BACKEND", "postgres")
	t.Setenv("AUTHGATE_STORAGE_POSTGRES_DSN", "postgres://u:p@localhost/db")

	c, err := Load(WithConfigFile(file), WithEnvFile(envFile))
	require.NoError(t, err)

	assert.Equal(t, "info", c.LogLevel, "file beats defaults")
	assert.Equal(t, "cli", c.App.Name)
	assert.Equal(t, "from-dotenv", c.App.ProjectID, ".env beats file")
	assert.Equal(t, BackendPostgres, c.Storage.Backend, "process env beats .env")
	assert.Equal(t, "postgres://u:p@localhost/db", c.Storage.PostgresDSN)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o600))

	_, err := Load(WithConfigFile(file), WithEnvFile(""))
	assert.True(t, apperrors.IsKind(err, apperrors.InvalidConfig))
}

func TestValidate(t *testing.T) {
	valid := Config{LogLevel: "warn", Storage: StorageConfig{Backend: BackendKeychain}, Persistence: PersistenceStorage}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "file backend", mutate: func(c *Config) { c.Storage.Backend = BackendFile }},
		{name: "memory backend without persistence", mutate: func(c *Config) {
			c.Storage.Backend = BackendMemory
			c.Persistence = PersistenceNone
		}},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.Storage.Backend = BackendPostgres
			c.Storage.PostgresDSN = "postgres://localhost/db"
		}},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage.Backend = BackendPostgres }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: true},
		{name: "unknown persistence", mutate: func(c *Config) { c.Persistence = "cookie" }, wantErr: true},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.True(t, apperrors.IsKind(err, apperrors.InvalidConfig))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSaveWritesPrivateFile(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, Save(Config{LogLevel: "info", Storage: StorageConfig{Backend: BackendFile}, Persistence: PersistenceNone}))

	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "authgate", FileName), p)

	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	c, err := Load(WithEnvFile(""))
	require.NoError(t, err)
	assert.Equal(t, BackendFile, c.Storage.Backend)
	assert.Equal(t, PersistenceNone, c.Persistence)
}

func TestReadFileIgnoresEnvironment(t *testing.T) {
	dir := isolate(t)
	t.Setenv("AUTHGATE_STORAGE_BACKEND", "memory")

	c, err := ReadFile(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)

	file := filepath.Join(dir, "config.json")
	require.NoError(t, SaveTo(file, Config{LogLevel: "info", Storage: StorageConfig{Backend: BackendFile}, Persistence: PersistenceStorage}))
	c, err = ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, c.Storage.Backend)
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(t *testing.T, c Config)
		wantErr bool
	}{
		{key: "app.project_id", value: "demo-project", check: func(t *testing.T, c Config) { assert.Equal(t, "demo-project", c.App.ProjectID) }},
		{key: "app.name", value: "cli", check: func(t *testing.T, c Config) { assert.Equal(t, "cli", c.App.Name) }},
		{key: "storage.backend", value: "file", check: func(t *testing.T, c Config) { assert.Equal(t, BackendFile, c.Storage.Backend) }},
		{key: "storage.table", value: "sessions", check: func(t *testing.T, c Config) { assert.Equal(t, "sessions", c.Storage.Table) }},
		{key: "persistence", value: "none", check: func(t *testing.T, c Config) { assert.Equal(t, PersistenceNone, c.Persistence) }},
		{key: "log_level", value: "debug", check: func(t *testing.T, c Config) { assert.Equal(t, "debug", c.LogLevel) }},
		{key: "verbose", value: "true", check: func(t *testing.T, c Config) { assert.True(t, c.Verbose) }},
		{key: "verbose", value: "loud", wantErr: true},
		{key: "storage.postgres_dsn", value: "postgres://u:p@h/db", wantErr: true},
		{key: "nope", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			c := Defaults()
			err := c.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.True(t, apperrors.IsKind(err, apperrors.InvalidConfig))
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}
