// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept in the file; a Postgres DSN with a
// password belongs in the environment or a .env file.
//
// Precedence, lowest first: defaults, config.json, .env, AUTHGATE_* env vars.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/xdg"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "AUTHGATE"

// FileName is the config file inside the XDG config dir.
const FileName = "config.json"

// Storage backends.
const (
	BackendKeychain = "keychain"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Persistence modes.
const (
	PersistenceStorage = "storage"
	PersistenceNone    = "none"
)

// Config holds CLI settings.
type Config struct {
	LogLevel    string        `json:"log_level" mapstructure:"log_level"`
	Verbose     bool          `json:"verbose,omitempty" mapstructure:"verbose"`
	App         AppConfig     `json:"app" mapstructure:"app"`
	Storage     StorageConfig `json:"storage" mapstructure:"storage"`
	Persistence string        `json:"persistence" mapstructure:"persistence"`
}

// AppConfig identifies the platform app. An empty ProjectID means offline.
type AppConfig struct {
	Name      string `json:"name,omitempty" mapstructure:"name"`
	ProjectID string `json:"project_id,omitempty" mapstructure:"project_id"`
}

// StorageConfig selects where sessions are persisted.
type StorageConfig struct {
	Backend     string `json:"backend" mapstructure:"backend"`
	PostgresDSN string `json:"postgres_dsn,omitempty" mapstructure:"postgres_dsn"`
	Table       string `json:"table,omitempty" mapstructure:"table"`
}

var defaults = map[string]any{
	"log_level":            "warn",
	"verbose":              false,
	"app.name":             "",
	"app.project_id":       "",
	"storage.backend":      BackendKeychain,
	"storage.postgres_dsn": "",
	"storage.table":        "",
	"persistence":          PersistenceStorage,
}

type loadOptions struct {
	configFile string
	envFile    string
}

// Option overrides a file location used by Load.
type Option func(*loadOptions)

// WithConfigFile reads path instead of the XDG config file.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) { o.configFile = path }
}

// WithEnvFile reads path instead of ./.env.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// Path returns the path of the config file in the XDG config dir.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads configuration. Missing files are not errors.
func Load(opts ...Option) (Config, error) {
	lo := loadOptions{envFile: ".env"}
	for _, opt := range opts {
		opt(&lo)
	}
	if lo.configFile == "" {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		lo.configFile = p
	}

	// godotenv never overrides variables already set in the process.
	if exists(lo.envFile) {
		if err := godotenv.Load(lo.envFile); err != nil {
			return Config{}, apperrors.Wrap(apperrors.InvalidConfig, "read "+lo.envFile, err)
		}
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if exists(lo.configFile) {
		v.SetConfigFile(lo.configFile)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, apperrors.Wrap(apperrors.InvalidConfig, "read "+lo.configFile, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, apperrors.Wrap(apperrors.InvalidConfig, "decode config", err)
	}
	return c, nil
}

// Validate rejects settings the CLI cannot act on.
func (c Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return apperrors.New(apperrors.InvalidConfig, fmt.Sprintf("unknown log_level %q", c.LogLevel))
		}
	}
	switch c.Storage.Backend {
	case BackendKeychain, BackendFile, BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return apperrors.New(apperrors.InvalidConfig, "storage.postgres_dsn is required for the postgres backend")
		}
	default:
		return apperrors.New(apperrors.InvalidConfig, fmt.Sprintf("unknown storage.backend %q", c.Storage.Backend))
	}
	switch c.Persistence {
	case PersistenceStorage, PersistenceNone:
	default:
		return apperrors.New(apperrors.InvalidConfig, fmt.Sprintf("unknown persistence %q", c.Persistence))
	}
	return nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		LogLevel:    "warn",
		Storage:     StorageConfig{Backend: BackendKeychain},
		Persistence: PersistenceStorage,
	}
}

// ReadFile reads only the config file at path, ignoring .env and the
// environment. A missing file yields Defaults.
func ReadFile(path string) (Config, error) {
	c := Defaults()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return Config{}, apperrors.Wrap(apperrors.InvalidConfig, "read "+path, err)
	}
	return c, nil
}

// SettableKeys lists the keys Set accepts. storage.postgres_dsn is left out
// because it usually carries a password; set it through the environment.
var SettableKeys = []string{
	"log_level",
	"verbose",
	"app.name",
	"app.project_id",
	"storage.backend",
	"storage.table",
	"persistence",
}

// Set assigns value to key. It does not validate the result.
func (c *Config) Set(key, value string) error {
	switch key {
	case "log_level":
		c.LogLevel = value
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return apperrors.Wrap(apperrors.InvalidConfig, "verbose must be true or false", err)
		}
		c.Verbose = b
	case "app.name":
		c.App.Name = value
	case "app.project_id":
		c.App.ProjectID = value
	case "storage.backend":
		c.Storage.Backend = value
	case "storage.table":
		c.Storage.Table = value
	case "persistence":
		c.Persistence = value
	case "storage.postgres_dsn":
		return apperrors.New(apperrors.InvalidConfig, "storage.postgres_dsn is read from AUTHGATE_STORAGE_POSTGRES_DSN only")
	default:
		return apperrors.New(apperrors.InvalidConfig, fmt.Sprintf("unknown key %q (settable: %s)", key, strings.Join(SettableKeys, ", ")))
	}
	return nil
}

// Save writes configuration to the XDG config file with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(p, c)
}

// SaveTo writes configuration to path with 0600 permissions.
func SaveTo(path string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
