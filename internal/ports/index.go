package ports

import "projectkeeper/internal/domain"

// IndexStore loads and persists the project index.
//
// Load distinguishes a missing file (ErrNotFound, callers start from an empty
// index) from one that exists but cannot be read or decoded (*ReadError, callers
// must not overwrite it).
type IndexStore interface {
	Load() (*domain.Index, error)
	Save(idx *domain.Index) error

	// Path is the file backing the store
	Path() string
}
