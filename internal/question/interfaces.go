package question

import (
	"context"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// Store persists questions. Lookup works by id or by exact title, because
// older clients key submissions by question title.
type Store interface {
	Get(ctx context.Context, idOrTitle string) (*domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)

	// Upsert inserts or updates by id, returning the stored record.
	Upsert(ctx context.Context, q domain.Question) (*domain.Question, error)
}
