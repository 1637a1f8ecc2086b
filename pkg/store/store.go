// Package store persists named architectures.
//
// [MemoryStore] keeps architectures for the life of the process;
// [MongoStore] keeps them in a MongoDB collection. [Cached] puts a
// [cache.Cache] in front of either.
//
// Only architectures (layer lists) are stored. Rendered frames and view
// state are never persisted.
package store

import (
	"context"

	"github.com/matzehuels/netgraph/pkg/network"
)

// Store saves and loads architectures by name.
type Store interface {
	// Save validates a and replaces any architecture with the same name.
	Save(ctx context.Context, a network.Architecture) error

	// Get returns the named architecture or a NOT_FOUND error.
	Get(ctx context.Context, name string) (network.Architecture, error)

	// List returns every architecture sorted by name.
	List(ctx context.Context) ([]network.Architecture, error)

	// Delete removes the named architecture or returns NOT_FOUND.
	Delete(ctx context.Context, name string) error

	Close(ctx context.Context) error
}
