// Package config loads the dockspace configuration file.
//
// The file is TOML, read from $XDG_CONFIG_HOME/dockspace/config.toml (or
// ~/.config/dockspace/config.toml). A missing file is not an error: every
// setting has a default. Environment variables override the file:
//
//	DOCKSPACE_STORE       [store] backend
//	DOCKSPACE_STORE_DIR   [store] dir
//	DOCKSPACE_REDIS_ADDR  [redis] addr
//	DOCKSPACE_MONGO_URI   [mongo] uri
//	DOCKSPACE_ADDR        [server] addr
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	derrors "github.com/matzehuels/dockspace/pkg/errors"
	"github.com/matzehuels/dockspace/pkg/store"
)

const (
	appName  = "dockspace"
	fileName = "config.toml"
)

// Environment variables that override file settings.
const (
	EnvStore     = "DOCKSPACE_STORE"
	EnvStoreDir  = "DOCKSPACE_STORE_DIR"
	EnvRedisAddr = "DOCKSPACE_REDIS_ADDR"
	EnvMongoURI  = "DOCKSPACE_MONGO_URI"
	EnvAddr      = "DOCKSPACE_ADDR"
)

// Config is the top-level TOML structure.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Server ServerConfig `toml:"server"`
}

type StoreConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`        // file backend; empty uses ~/.config/dockspace/layouts
	CacheSize int    `toml:"cache_size"` // 0 disables the LRU cache
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:   store.BackendFile,
			CacheSize: 64,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: store.DefaultRedisPrefix,
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   store.DefaultMongoDatabase,
			Collection: store.DefaultMongoCollection,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7420",
		},
	}
}

// DefaultPath returns the config file path using the XDG standard.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config file at path (DefaultPath when empty), applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if cfg, err = Parse(data); err != nil {
			return Config{}, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "%s", path)
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML on top of the defaults. Unknown keys are rejected so
// typos do not go unnoticed.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", fileName, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown keys in %s: %s", fileName, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvStore); v != "" {
		c.Store.Backend = v
	}
	if v := getenv(EnvStoreDir); v != "" {
		c.Store.Dir = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Mongo.URI = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks value ranges and the backend name.
func (c Config) Validate() error {
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return derrors.New(derrors.ErrCodeInvalidConfig,
			"store.backend %q is not one of %s", c.Store.Backend, strings.Join(store.Backends, ", "))
	}
	if c.Store.CacheSize < 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "store.cache_size must be >= 0, got %d", c.Store.CacheSize)
	}
	if c.Redis.DB < 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "redis.db must be >= 0, got %d", c.Redis.DB)
	}
	if c.Server.Addr == "" {
		return derrors.New(derrors.ErrCodeInvalidConfig, "server.addr is empty")
	}
	return nil
}

// StoreConfig converts the file settings into a store.Config for store.Open.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Backend:   c.Store.Backend,
		Dir:       c.Store.Dir,
		CacheSize: c.Store.CacheSize,
		Redis: store.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		},
		Mongo: store.MongoConfig{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		},
	}
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode %s: %w", fileName, err)
	}
	return buf.Bytes(), nil
}

// Save writes c to path (DefaultPath when empty), creating parent
// directories as needed.
func Save(path string, c Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	return nil
}
