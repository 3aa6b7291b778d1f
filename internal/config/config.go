// Package config loads kanban settings from defaults, an optional YAML file
// and KANBAN_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ldi/kanban/internal/store"
)

const EnvPrefix = "KANBAN"

type Config struct {
	StorageKey string        `mapstructure:"storage_key"`
	Storage    StorageConfig `mapstructure:"storage"`
	Log        LogConfig     `mapstructure:"log"`
	Web        WebConfig     `mapstructure:"web"`
}

type StorageConfig struct {
	Backend string      `mapstructure:"backend"`
	Dir     string      `mapstructure:"dir"`
	SQLite  string      `mapstructure:"sqlite_path"`
	Redis   RedisConfig `mapstructure:"redis"`
	Azure   AzureConfig `mapstructure:"azure"`
}

type RedisConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

type AzureConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	Table            string `mapstructure:"table"`
	Partition        string `mapstructure:"partition"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		StorageKey: "kanban-board",
		Storage: StorageConfig{
			Backend: store.BackendFile,
			Dir:     ".kanban",
			SQLite:  filepath.Join(".kanban", "kanban.db"),
			Azure: AzureConfig{
				Table:     "kanban",
				Partition: store.DefaultPartition,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Web: WebConfig{
			Addr: ":8000",
		},
	}
}

// DefaultPath is the project-local config file.
func DefaultPath() string {
	return filepath.Join(".kanban", "config.yaml")
}

// Load merges defaults, the YAML file at path (if present) and the
// environment. A .env file in the working directory is loaded first when it
// exists. An explicitly named file that does not exist is an error; a missing
// default file is not.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that do
// not appear in the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage_key", cfg.StorageKey)
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.dir", cfg.Storage.Dir)
	v.SetDefault("storage.sqlite_path", cfg.Storage.SQLite)
	v.SetDefault("storage.redis.url", cfg.Storage.Redis.URL)
	v.SetDefault("storage.redis.prefix", cfg.Storage.Redis.Prefix)
	v.SetDefault("storage.azure.connection_string", cfg.Storage.Azure.ConnectionString)
	v.SetDefault("storage.azure.table", cfg.Storage.Azure.Table)
	v.SetDefault("storage.azure.partition", cfg.Storage.Azure.Partition)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("web.addr", cfg.Web.Addr)
}

// StoreOptions maps the storage section onto store.Options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:               c.Storage.Backend,
		Dir:                   c.Storage.Dir,
		Path:                  c.Storage.SQLite,
		RedisURL:              c.Storage.Redis.URL,
		RedisPrefix:           c.Storage.Redis.Prefix,
		AzureConnectionString: c.Storage.Azure.ConnectionString,
		AzureTable:            c.Storage.Azure.Table,
		AzurePartition:        c.Storage.Azure.Partition,
	}
}

// WriteDefault writes a commented starter config file.
func WriteDefault(path string) error {
	content := `# kanban configuration
storage_key: kanban-board

storage:
  # memory | file | sqlite | redis | aztables
  backend: file
  dir: .kanban
  sqlite_path: .kanban/kanban.db
  # redis:
  #   url: redis://localhost:6379/0
  #   prefix: ""
  # azure:
  #   connection_string: ""
  #   table: kanban
  #   partition: kanban

log:
  level: info   # debug | info | warn | error
  format: text  # text | json

web:
  addr: ":8000"
`
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0644)
}
