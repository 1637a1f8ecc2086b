// Package cache stores rendered artifacts and saved architectures.
//
// Every backend implements [Cache]: [FileCache] for the CLI, [RedisCache]
// for servers sharing a cache, [MemoryCache] for a single process and
// [NullCache] when caching is disabled. Keys are produced by a [Keyer] so
// that the same inputs map to the same entry on every backend.
//
// Rendered frames are only cacheable when their edge weights are
// reproducible, that is when the caller fixed a weight seed. The pipeline
// runner enforces this; the cache itself stores opaque bytes.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLArtifact     = 30 * 24 * time.Hour
	TTLArchitecture = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A zero ttl in Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// =============================================================================
// Keys
// =============================================================================

// ArtifactKeyOpts holds every input that changes a rendered artifact
// besides the layer list itself.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Seed        uint64  `json:"seed"`
	Zoom        float64 `json:"zoom"`
	Style       string  `json:"style"`
	Scale       float64 `json:"scale,omitempty"`
	MaxNodes    int     `json:"max_nodes,omitempty"`
	Title       string  `json:"title,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey keys one rendered format of a layer list, identified by
	// the hash of its serialized layers.
	ArtifactKey(layersHash string, opts ArtifactKeyOpts) string

	// ArchitectureKey keys a saved architecture by name.
	ArchitectureKey(name string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the layers hash and opts.
func (DefaultKeyer) ArtifactKey(layersHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layersHash, opts)
}

// ArchitectureKey returns "architecture:<name>".
func (DefaultKeyer) ArchitectureKey(name string) string {
	return "architecture:" + name
}

var _ Keyer = DefaultKeyer{}
