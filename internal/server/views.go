package server

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/netgraph/pkg/component"
	"github.com/matzehuels/netgraph/pkg/errors"
)

// View is a component mounted on an in-memory surface.
type View struct {
	ID        string
	Source    string
	Style     string
	Seed      uint64
	CreatedAt time.Time

	Component *component.Component
	Surface   *component.Recorder
}

// ViewStore holds the live views of a server.
type ViewStore struct {
	mu    sync.RWMutex
	views map[string]*View
	max   int
}

// NewViewStore returns an empty store. max limits the number of live views;
// zero means unlimited.
func NewViewStore(max int) *ViewStore {
	return &ViewStore{views: make(map[string]*View), max: max}
}

// Add assigns v a fresh id and stores it.
func (s *ViewStore) Add(v *View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.views) >= s.max {
		return errors.New(errors.ErrCodeUnsupported, "view limit of %d reached", s.max)
	}
	v.ID = uuid.NewString()
	v.CreatedAt = time.Now()
	s.views[v.ID] = v
	return nil
}

// Get returns the view with id or VIEW_NOT_FOUND.
func (s *ViewStore) Get(id string) (*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeViewNotFound, "view %q not found", id)
	}
	return v, nil
}

// Delete unmounts and removes the view with id.
func (s *ViewStore) Delete(id string) error {
	s.mu.Lock()
	v, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeViewNotFound, "view %q not found", id)
	}
	v.Component.Unmount()
	return nil
}

// List returns the views ordered by creation time.
func (s *ViewStore) List() []*View {
	s.mu.RLock()
	out := make([]*View, 0, len(s.views))
	for _, v := range s.views {
		out = append(out, v)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of live views.
func (s *ViewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// Close unmounts every view.
func (s *ViewStore) Close() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*View)
	s.mu.Unlock()
	for _, v := range views {
		v.Component.Unmount()
	}
}
