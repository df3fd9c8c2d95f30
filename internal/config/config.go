// Package config loads server configuration from defaults, an optional YAML
// file and TOURNEY_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage types
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// EnvPrefix is the prefix of every configuration environment variable
const EnvPrefix = "TOURNEY"

// Server holds all configuration for the tourney server
type Server struct {
	Addr      string        `mapstructure:"addr"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"` // "json" (default) or "text"
	Storage   StorageConfig `mapstructure:"storage"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type string `mapstructure:"type"`

	RedisURL    string        `mapstructure:"redis_url"`
	RedisLogTTL time.Duration `mapstructure:"redis_log_ttl"`

	DataDir    string `mapstructure:"data_dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() Server {
	return Server{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "json",
		Storage: StorageConfig{
			Type:       StorageMemory,
			RedisURL:   "redis://localhost:6379",
			DataDir:    "data",
			SQLitePath: "tourney.db",
		},
	}
}

// Load reads configuration into v. An empty path skips the config file.
func Load(v *viper.Viper, path string) (Server, error) {
	d := Defaults()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("storage.type", d.Storage.Type)
	v.SetDefault("storage.redis_url", d.Storage.RedisURL)
	v.SetDefault("storage.redis_log_ttl", d.Storage.RedisLogTTL)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Server{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return Server{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable
func (c Server) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url is required for redis storage")
		}
	case StorageFile:
		if c.Storage.DataDir == "" {
			return errors.New("storage.data_dir is required for file storage")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for sqlite storage")
		}
	default:
		return fmt.Errorf("invalid storage type %q", c.Storage.Type)
	}
	return nil
}

// SlogLevel parses the configured log level
func (c Server) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}
