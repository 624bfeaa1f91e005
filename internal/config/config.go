// Package config loads tally.yaml into a typed Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/tally/pkg/persistence/middleware"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "tally.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the application configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Store    Store  `mapstructure:"store"`
	Server   Server `mapstructure:"server"`
}

// Store selects and configures session persistence.
type Store struct {
	Backend    string     `mapstructure:"backend"`
	Path       string     `mapstructure:"path"`
	Redis      Redis      `mapstructure:"redis"`
	Encryption Encryption `mapstructure:"encryption"`
}

// Encryption seals session states at rest. Keys are base64 encoded AES-256
// keys; an empty Key disables encryption.
type Encryption struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// Enabled reports whether states are encrypted.
func (e Encryption) Enabled() bool {
	return e.Key != ""
}

// Config returns the decoded keys for the encryption middleware.
func (e Encryption) Config() (middleware.EncryptionConfig, error) {
	active, err := middleware.ParseKey(e.Key)
	if err != nil {
		return middleware.EncryptionConfig{}, fmt.Errorf("%w: store.encryption.key: %v", ErrInvalidConfig, err)
	}
	cfg := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range e.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return middleware.EncryptionConfig{}, fmt.Errorf("%w: store.encryption.fallback_keys[%d]: %v", ErrInvalidConfig, i, err)
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return cfg, nil
}

// Redis holds the connection settings of the redis backend.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Server configures the HTTP surface.
type Server struct {
	Port    int  `mapstructure:"port"`
	Metrics bool `mapstructure:"metrics"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store: Store{
			Backend: BackendFile,
			Path:    ".tally/sessions",
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "tally:session:",
			},
		},
		Server: Server{
			Port:    8080,
			Metrics: true,
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := Default()
	if raw == nil {
		return cfg, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that the decoder cannot.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.Store.Backend)
	}
	if c.Store.Backend == BackendRedis && c.Store.Redis.Addr == "" {
		return fmt.Errorf("%w: redis backend needs an address", ErrInvalidConfig)
	}
	if c.Store.Redis.TTL < 0 {
		return fmt.Errorf("%w: negative redis ttl", ErrInvalidConfig)
	}
	if c.Store.Encryption.Enabled() {
		if _, err := c.Store.Encryption.Config(); err != nil {
			return err
		}
	} else if len(c.Store.Encryption.FallbackKeys) > 0 {
		return fmt.Errorf("%w: fallback keys need an active key", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}
