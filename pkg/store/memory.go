package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
)

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu    sync.RWMutex
	archs map[string]network.Architecture
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{archs: make(map[string]network.Architecture)}
}

func (s *MemoryStore) Save(ctx context.Context, a network.Architecture) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.archs[a.Name] = clone(a)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (network.Architecture, error) {
	s.mu.RLock()
	a, ok := s.archs[name]
	s.mu.RUnlock()
	if !ok {
		return network.Architecture{}, notFound(name)
	}
	return clone(a), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]network.Architecture, error) {
	s.mu.RLock()
	out := make([]network.Architecture, 0, len(s.archs))
	for _, a := range s.archs {
		out = append(out, clone(a))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.archs[name]; !ok {
		return notFound(name)
	}
	delete(s.archs, name)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// clone copies the layer slice and every slot pointer.
func clone(a network.Architecture) network.Architecture {
	layers := make([]network.LayerSpec, len(a.Layers))
	for i, l := range a.Layers {
		if l.Slot != nil {
			l = l.WithSlot(*l.Slot)
		}
		layers[i] = l
	}
	a.Layers = layers
	return a
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeNotFound, "architecture %q not found", name)
}

var _ Store = (*MemoryStore)(nil)
