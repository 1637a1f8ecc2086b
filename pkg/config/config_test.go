package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/netgraph/pkg/cache"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.Render.Width != 800 || cfg.Render.Height != 600 {
		t.Errorf("render surface = %vx%v, want 800x600", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Cache.Backend != CacheFile || cfg.Store.Backend != StoreMemory {
		t.Errorf("backends = %s/%s", cfg.Cache.Backend, cfg.Store.Backend)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = "127.0.0.1:9000"
allowed_origins = ["http://localhost:3000"]

[cache]
backend = "memory"

[render]
width = 1024.0
style = "dark"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Render.Width != 1024 || cfg.Render.Height != 600 {
		t.Errorf("render surface = %vx%v, want 1024x600", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Style != "dark" {
		t.Errorf("Style = %q, want dark", cfg.Render.Style)
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[render\nwidth = ", errors.ErrCodeInvalidFormat},
		{"unknown key", "[render]\ncolour = \"red\"", errors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"disk\"", errors.ErrCodeInvalidInput},
		{"redis without url", "[cache]\nbackend = \"redis\"", errors.ErrCodeInvalidInput},
		{"mongo without uri", "[store]\nbackend = \"mongo\"", errors.ErrCodeInvalidInput},
		{"bad style", "[render]\nstyle = \"neon\"", errors.ErrCodeInvalidStyle},
		{"bad surface", "[render]\nwidth = -1.0", errors.ErrCodeInvalidSurface},
		{"bad zoom", "[render]\nzoom = -1.0", errors.ErrCodeInvalidZoom},
		{"negative max nodes", "[render]\nmax_nodes = -1", errors.ErrCodeInvalidInput},
		{"max nodes over limit", "[render]\nmax_nodes = 100000", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvRedisURL, "")
			t.Setenv(EnvMongoURI, "")
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Render.Width != Default().Render.Width {
		t.Error("Load(\"\") without a file did not return defaults")
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.IsNotFound(err) {
		t.Errorf("Load(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EnvRedisURL, "redis://cache:6379/1")
	cfg, err := Load(writeConfig(t, "[cache]\nbackend = \"redis\""))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cache.RedisURL != "redis://cache:6379/1" {
		t.Errorf("RedisURL = %q", cfg.Cache.RedisURL)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	if got, _ := DefaultPath(); got != filepath.Join("/xdg/config", "netgraph", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}
	if got, _ := CacheDir(); got != filepath.Join("/xdg/cache", "netgraph") {
		t.Errorf("CacheDir() = %q", got)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		backend string
		check   func(cache.Cache) bool
	}{
		{CacheNone, func(c cache.Cache) bool { _, ok := c.(cache.NullCache); return ok }},
		{CacheMemory, func(c cache.Cache) bool { _, ok := c.(*cache.MemoryCache); return ok }},
		{CacheFile, func(c cache.Cache) bool { _, ok := c.(*cache.FileCache); return ok }},
	}
	for _, tt := range tests {
		c, err := CacheConfig{Backend: tt.backend, Dir: t.TempDir()}.OpenCache(ctx)
		if err != nil {
			t.Fatalf("OpenCache(%s) error: %v", tt.backend, err)
		}
		if !tt.check(c) {
			t.Errorf("OpenCache(%s) = %T", tt.backend, c)
		}
		c.Close()
	}

	_, err := CacheConfig{Backend: CacheRedis, RedisURL: "not a url"}.OpenCache(ctx)
	if err == nil {
		t.Error("OpenCache(redis) accepted a bad url")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	st, err := StoreConfig{Backend: StoreMemory}.OpenStore(ctx, nil)
	if err != nil {
		t.Fatalf("OpenStore() error: %v", err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("OpenStore(memory) = %T", st)
	}

	if uri := os.Getenv("NETGRAPH_TEST_MONGO"); uri != "" {
		st, err := StoreConfig{Backend: StoreMongo, MongoURI: uri, Database: "netgraph_test"}.OpenStore(ctx, cache.NewMemoryCache(0))
		if err != nil {
			t.Fatalf("OpenStore(mongo) error: %v", err)
		}
		defer st.Close(ctx)
		if _, ok := st.(*store.CachedStore); !ok {
			t.Errorf("OpenStore(mongo, cache) = %T, want *store.CachedStore", st)
		}
	}
}

func TestLoadExample(t *testing.T) {
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvMongoURI, "")

	cfg, err := Load(filepath.Join("..", "..", "examples", "config", "config.toml"))
	if err != nil {
		t.Fatalf("Load(example) error: %v", err)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Store.Backend != StoreMongo {
		t.Errorf("backends = %s/%s, want redis/mongo", cfg.Cache.Backend, cfg.Store.Backend)
	}
	if cfg.Server.MaxViews != 256 {
		t.Errorf("MaxViews = %d, want 256", cfg.Server.MaxViews)
	}
}
