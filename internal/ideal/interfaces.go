package ideal

import (
	"context"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// Store persists generated ideal answers, one per question id.
type Store interface {
	// Get returns the cached answer for a question, or
	// domain.ErrIdealAnswerNotFound.
	Get(ctx context.Context, questionID string) (*domain.IdealAnswer, error)

	// PutIfAbsent stores ans unless an answer already exists for its
	// question id, and returns whichever record is durably stored. Racing
	// writers both succeed; the loser's generation is discarded.
	PutIfAbsent(ctx context.Context, ans domain.IdealAnswer) (*domain.IdealAnswer, error)

	// Replace overwrites any cached answer for the question id, bumping the
	// version tag, and returns the stored record.
	Replace(ctx context.Context, ans domain.IdealAnswer) (*domain.IdealAnswer, error)
}
