// Package store defines the remote document store contract and its
// implementations. The store is path-addressed: routes/{panelType}/{id},
// trainingSessions/{userId}/{id}, users/{userId}/profile, gyms/{gymId},
// userProfiles/{userId}.
package store

import (
	"context"
	"encoding/json"
)

// KeyedDocument pairs a child key with its raw document.
type KeyedDocument struct {
	Key      string
	Document json.RawMessage
}

// Store provides read/write access to the remote document tree.
// It is the single source of truth; there is no local persistence layer.
type Store interface {
	// Get returns the document at path. Returns ErrNotFound when absent.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// GetAll returns the children of path as (key, document) pairs,
	// ordered by key. A missing path yields an empty slice, not an error.
	GetAll(ctx context.Context, path string) ([]KeyedDocument, error)

	// Put writes doc at path, replacing any existing document.
	Put(ctx context.Context, path string, doc any) error

	// Post writes doc under path with a server-generated key and
	// returns that key.
	Post(ctx context.Context, path string, doc any) (string, error)

	// Delete removes the document at path. Deleting an absent path
	// succeeds.
	Delete(ctx context.Context, path string) error

	// ListChildKeys returns the child key names under path, sorted.
	// A missing path yields an empty slice.
	ListChildKeys(ctx context.Context, path string) ([]string, error)
}
