package store

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/netgraph/pkg/cache"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/observability"
)

const keyTypeArchitecture = "architecture"

// CachedStore reads through a cache. Writes go to the inner store first and
// then drop the cached copy.
type CachedStore struct {
	inner Store
	cache cache.Cache
	keyer cache.Keyer
}

// Cached wraps inner with c. A nil keyer selects cache.DefaultKeyer.
func Cached(inner Store, c cache.Cache, keyer cache.Keyer) *CachedStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedStore{inner: inner, cache: c, keyer: keyer}
}

func (s *CachedStore) Save(ctx context.Context, a network.Architecture) error {
	if err := s.inner.Save(ctx, a); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.keyer.ArchitectureKey(a.Name))
	return nil
}

func (s *CachedStore) Get(ctx context.Context, name string) (network.Architecture, error) {
	key := s.keyer.ArchitectureKey(name)
	hooks := observability.Cache()

	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var a network.Architecture
		if json.Unmarshal(data, &a) == nil {
			hooks.OnCacheHit(ctx, keyTypeArchitecture)
			return a, nil
		}
	}
	hooks.OnCacheMiss(ctx, keyTypeArchitecture)

	a, err := s.inner.Get(ctx, name)
	if err != nil {
		return network.Architecture{}, err
	}
	if data, err := json.Marshal(a); err == nil {
		if s.cache.Set(ctx, key, data, cache.TTLArchitecture) == nil {
			hooks.OnCacheSet(ctx, keyTypeArchitecture, len(data))
		}
	}
	return a, nil
}

func (s *CachedStore) List(ctx context.Context) ([]network.Architecture, error) {
	return s.inner.List(ctx)
}

func (s *CachedStore) Delete(ctx context.Context, name string) error {
	if err := s.inner.Delete(ctx, name); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.keyer.ArchitectureKey(name))
	return nil
}

// Close closes the inner store. The cache is shared with the pipeline
// runner and stays open.
func (s *CachedStore) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}

var _ Store = (*CachedStore)(nil)
