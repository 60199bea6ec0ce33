// Package sqlite provides the public API for the SQLite Lockbox store.
// It exposes the factory function while keeping implementation details
// internal.
package sqlite

import (
	"github.com/mesh-intelligence/lockbox/internal/sqlite"
	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// Store combines the keyed store contract with the attach/detach
// lifecycle of the SQLite backend.
type Store interface {
	types.Store
	types.Attachable
}

// NewBackend creates a new SQLite store instance.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".lockbox-db",
//	})
//	defer store.Detach()
func NewBackend() Store {
	return sqlite.NewBackend()
}
