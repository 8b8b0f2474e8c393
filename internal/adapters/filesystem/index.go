package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

var _ ports.IndexStore = (*IndexStore)(nil)

// IndexStore persists the project index as a JSON file
type IndexStore struct {
	path string
}

// NewIndexStore creates a store backed by path
func NewIndexStore(path string) *IndexStore {
	return &IndexStore{path: path}
}

func (s *IndexStore) Path() string {
	return s.path
}

// Load reads the index. A missing file yields ports.ErrNotFound; a file that
// cannot be read or parsed yields *ports.ReadError.
func (s *IndexStore) Load() (*domain.Index, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("index %s: %w", s.path, ports.ErrNotFound)
	}
	if err != nil {
		return nil, &ports.ReadError{Path: s.path, Err: err}
	}

	var idx domain.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &ports.ReadError{Path: s.path, Err: err}
	}
	idx.Normalize()
	return &idx, nil
}

// Save writes the index atomically
func (s *IndexStore) Save(idx *domain.Index) error {
	idx.Normalize()
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return writeFileAtomic(s.path, append(data, '\n'), 0o644)
}
