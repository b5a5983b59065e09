package submission

import (
	"context"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// Store persists submissions, at most one per (student, question) pair.
// Stage writes are upserts: the parent record is created on first write and
// only the addressed stage column is overwritten afterwards.
type Store interface {
	// Get returns the student's submission for a question, or
	// domain.ErrSubmissionNotFound.
	Get(ctx context.Context, studentID, questionID string) (*domain.Submission, error)

	// UpsertFlowchartStage writes the stage-1 sub-record.
	UpsertFlowchartStage(ctx context.Context, studentID, questionID string, stage domain.FlowchartStage) (*domain.Submission, error)

	// UpsertTextStage writes the stage-2 or stage-3 sub-record.
	UpsertTextStage(ctx context.Context, studentID, questionID string, stage int, rec domain.TextStage) (*domain.Submission, error)
}
