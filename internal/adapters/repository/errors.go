package repository

import "github.com/betalog/betalog/internal/adapters/store"

// The repository layer reuses the store error taxonomy; these aliases
// keep callers from importing the store package just for error checks.
var (
	ErrNotFound     = store.ErrNotFound
	ErrUnauthorized = store.ErrUnauthorized
)
