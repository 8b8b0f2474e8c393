package ports

import (
	"context"

	"projectkeeper/internal/domain"
)

// Journal records executor runs
type Journal interface {
	Record(ctx context.Context, entry domain.JournalEntry) error
	Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error)
	Close() error
}
