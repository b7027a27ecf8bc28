// Package sqlite provides the public constructor for the embedded SQLite
// store while keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/nutrio/internal/sqlite"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// NewBackend creates a detached SQLite store. Call Attach with a Config to
// open it.
//
// Example:
//
//	store := sqlite.NewBackend()
//	if err := store.Attach(types.Config{DataDir: dir}); err != nil {
//	    return err
//	}
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
