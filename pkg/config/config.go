// Package config loads flowglyph configuration.
//
// Values come from, in increasing priority: built-in defaults, an optional
// config file (yaml, json or toml, chosen by extension), and FLOWGLYPH_*
// environment variables. Nested keys use underscores in the environment,
// so cache.redis.addr is FLOWGLYPH_CACHE_REDIS_ADDR.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/matzehuels/flowglyph/pkg/cache"
	"github.com/matzehuels/flowglyph/pkg/core/beta"
	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/override"
	"github.com/matzehuels/flowglyph/pkg/core/prop"
	"github.com/matzehuels/flowglyph/pkg/engine"
	"github.com/matzehuels/flowglyph/pkg/errors"
	"github.com/matzehuels/flowglyph/pkg/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FLOWGLYPH"

// FileName is the base name searched for when no config path is given.
const FileName = "flowglyph"

// Config is the complete configuration.
type Config struct {
	Canvas      geometry.Grid `mapstructure:"canvas"`
	Offsets     OffsetConfig  `mapstructure:"offsets"`
	Glyph       GlyphConfig   `mapstructure:"glyph"`
	BetaLetters []string      `mapstructure:"beta_letters"`
	Tables      TableConfig   `mapstructure:"tables"`
	Cache       CacheConfig   `mapstructure:"cache"`
	Store       StoreConfig   `mapstructure:"store"`
	Server      ServerConfig  `mapstructure:"server"`
	Log         LogConfig     `mapstructure:"log"`
}

// OffsetConfig holds the beta separation distance per prop size class.
type OffsetConfig struct {
	Big   float64 `mapstructure:"big"`
	Small float64 `mapstructure:"small"`
	Hand  float64 `mapstructure:"hand"`
}

// GlyphConfig controls arrow glyph rendering.
type GlyphConfig struct {
	Scale float64 `mapstructure:"scale"`
}

// TableConfig points at replacement tables. Empty paths use the embedded
// defaults.
type TableConfig struct {
	Overrides  string `mapstructure:"overrides"`
	Directions string `mapstructure:"directions"`
}

// CacheConfig selects the placement cache. KeyPrefix namespaces every key
// for deployments that share one backend.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`
	Dir        string        `mapstructure:"dir"`
	MaxEntries int           `mapstructure:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
	Redis      RedisConfig   `mapstructure:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// StoreConfig selects the sequence store.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Dir     string      `mapstructure:"dir"`
	Mongo   MongoConfig `mapstructure:"mongo"`
}

// MongoConfig configures the mongo store backend.
type MongoConfig struct {
	URI        string        `mapstructure:"uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// LogConfig configures logging. A non-empty File adds a rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	grid := geometry.DefaultGrid()
	v.SetDefault("canvas.size", grid.Size)
	v.SetDefault("canvas.center_x", grid.CenterX)
	v.SetDefault("canvas.center_y", grid.CenterY)
	v.SetDefault("canvas.hand_radius", grid.HandRadius)
	v.SetDefault("canvas.diagonal_factor", grid.DiagonalFactor)

	mags := beta.DefaultMagnitudes()
	v.SetDefault("offsets.big", mags[prop.Big])
	v.SetDefault("offsets.small", mags[prop.Small])
	v.SetDefault("offsets.hand", mags[prop.Hand])

	v.SetDefault("glyph.scale", engine.DefaultScale)
	v.SetDefault("beta_letters", beta.DefaultBetaLetters())

	v.SetDefault("tables.overrides", "")
	v.SetDefault("tables.directions", "")

	v.SetDefault("cache.backend", cache.BackendFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.max_entries", cache.DefaultMemoryEntries)
	v.SetDefault("cache.ttl", engine.DefaultTTL)
	v.SetDefault("cache.key_prefix", "")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", cache.DefaultRedisPrefix)

	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.dir", "")
	v.SetDefault("store.mongo.uri", "")
	v.SetDefault("store.mongo.database", store.DefaultMongoDatabase)
	v.SetDefault("store.mongo.collection", store.DefaultMongoCollection)
	v.SetDefault("store.mongo.timeout", store.DefaultMongoTimeout)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.max_body_bytes", int64(1<<20))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the built-in configuration, ignoring files and the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from path. An empty path searches the working
// directory and the user config directory for flowglyph.{yaml,json,toml}
// and carries on with defaults when none exists; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "error reading config file %s", path)
		}
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "flowglyph"))
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "error reading config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and backend names.
func (c *Config) Validate() error {
	if c.Canvas.Size < 0 || c.Canvas.HandRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must not be negative")
	}
	if c.Offsets.Big < 0 || c.Offsets.Small < 0 || c.Offsets.Hand < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "offset magnitudes must not be negative")
	}
	if c.Glyph.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "glyph scale must not be negative")
	}
	for _, l := range c.BetaLetters {
		if err := errors.ValidateLetter(l); err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "beta_letters: %s", errors.UserMessage(err))
		}
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendMemory, cache.BackendFile, cache.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: none, memory, file, redis)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case store.BackendFile, store.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (must be one of: file, mongo)", c.Store.Backend)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log level %q", c.Log.Level)
	}
	return nil
}

// EngineOptions builds engine options, loading replacement tables from
// disk when configured.
func (c *Config) EngineOptions() (engine.Options, error) {
	opts := engine.Options{
		Grid: c.Canvas,
		Magnitudes: beta.Magnitudes{
			prop.Big:   c.Offsets.Big,
			prop.Small: c.Offsets.Small,
			prop.Hand:  c.Offsets.Hand,
		},
		Scale:       c.Glyph.Scale,
		BetaLetters: c.BetaLetters,
		TTL:         c.Cache.TTL,
	}
	if c.Tables.Overrides != "" {
		t, err := override.Load(c.Tables.Overrides)
		if err != nil {
			return engine.Options{}, err
		}
		opts.Overrides = t
	}
	if c.Tables.Directions != "" {
		t, err := beta.LoadRules(c.Tables.Directions)
		if err != nil {
			return engine.Options{}, err
		}
		opts.Rules = t
	}
	return opts, nil
}

// CacheOptions returns the options for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		MaxEntries: c.Cache.MaxEntries,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		},
	}
}

// StoreOptions returns the options for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Dir:     c.Store.Dir,
		Mongo: store.MongoOptions{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
			Timeout:    c.Store.Mongo.Timeout,
		},
	}
}

// CacheKeyer returns the keyer for the configured key prefix.
func (c *Config) CacheKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.KeyPrefix)
}

// OpenCache opens the configured cache.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	return cache.Open(ctx, c.CacheOptions())
}

// OpenStore opens the configured sequence store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.StoreOptions())
}
