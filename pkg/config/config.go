// Package config loads the netgraph configuration file.
//
// The file is TOML and optional. It lives at
// $XDG_CONFIG_HOME/netgraph/config.toml (or ~/.config/netgraph/config.toml)
// unless a path is given explicitly:
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[render]
//	width = 1024
//	height = 768
//	style = "dark"
//
// Command-line flags override file values.
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netgraph/pkg/cache"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/pipeline"
	"github.com/matzehuels/netgraph/pkg/render/draw"
	"github.com/matzehuels/netgraph/pkg/render/styles"
	"github.com/matzehuels/netgraph/pkg/store"
)

const appName = "netgraph"

// Cache backends.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Environment variables that override file values.
const (
	EnvRedisURL = "NETGRAPH_REDIS_URL"
	EnvMongoURI = "NETGRAPH_MONGO_URI"
)

// Config is the whole configuration file.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
}

// ServerConfig configures `netgraph serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxViews       int      `toml:"max_views"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// StoreConfig selects the architecture store.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	Style    string  `toml:"style"`
	Zoom     float64 `toml:"zoom"`
	MaxNodes int     `toml:"max_nodes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache:  CacheConfig{Backend: CacheFile},
		Store:  StoreConfig{Backend: StoreMemory, Database: store.DefaultMongoDatabase},
		Render: RenderConfig{
			Width:    pipeline.DefaultWidth,
			Height:   pipeline.DefaultHeight,
			Style:    pipeline.DefaultStyle,
			Zoom:     pipeline.DefaultZoom,
			MaxNodes: pipeline.DefaultMaxNodes,
		},
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the XDG location of the configuration file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the XDG cache directory (~/.cache/netgraph/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the configuration at path over the defaults. An empty path
// selects DefaultPath, where a missing file is not an error; a missing
// explicit path is NOT_FOUND. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
			}
			cfg = Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
}

// Validate checks backend names and render defaults.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "store backend mongo needs mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}

	if err := network.ValidateSurface(c.Render.Width, c.Render.Height); err != nil {
		return err
	}
	if _, err := styles.Lookup(c.Render.Style); err != nil {
		return err
	}
	if err := draw.ValidateZoom(c.Render.Zoom); err != nil {
		return err
	}
	return pipeline.ValidateMaxNodes(c.Render.MaxNodes)
}

// =============================================================================
// Backends
// =============================================================================

// OpenCache opens the configured artifact cache.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheMemory:
		return cache.NewMemoryCache(0), nil
	case CacheRedis:
		var opts []cache.RedisOption
		if c.Prefix != "" {
			opts = append(opts, cache.WithRedisPrefix(c.Prefix))
		}
		return cache.NewRedisCache(ctx, c.RedisURL, opts...)
	default:
		dir := c.Dir
		if dir == "" {
			d, err := CacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// OpenStore opens the configured architecture store. A non-nil c puts the
// cache in front of it.
func (s StoreConfig) OpenStore(ctx context.Context, c cache.Cache) (store.Store, error) {
	var st store.Store
	switch s.Backend {
	case StoreMongo:
		m, err := store.NewMongoStore(ctx, s.MongoURI, s.Database)
		if err != nil {
			return nil, err
		}
		st = m
	default:
		return store.NewMemoryStore(), nil
	}
	if c == nil {
		return st, nil
	}
	return store.Cached(st, c, nil), nil
}
