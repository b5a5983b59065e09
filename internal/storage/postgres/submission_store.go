package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// SubmissionStore implements submission persistence backed by PostgreSQL.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

// NewSubmissionStore creates a new Postgres-backed submission store.
func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

// Get returns the student's submission for a question.
func (s *SubmissionStore) Get(ctx context.Context, studentID, questionID string) (*domain.Submission, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, student_id, question_id, stage1, stage2, stage3, created_at, updated_at
		FROM submissions WHERE student_id = $1 AND question_id = $2`, studentID, questionID)
	return scanSubmission(row)
}

// UpsertFlowchartStage writes the stage-1 sub-record, creating the parent
// submission on first write; created_at is only set on insert.
func (s *SubmissionStore) UpsertFlowchartStage(ctx context.Context, studentID, questionID string, stage domain.FlowchartStage) (*domain.Submission, error) {
	payload, err := json.Marshal(stage)
	if err != nil {
		return nil, fmt.Errorf("marshal stage1: %w", err)
	}
	return s.upsertStageColumn(ctx, studentID, questionID, "stage1", payload)
}

// UpsertTextStage writes the stage-2 or stage-3 sub-record.
func (s *SubmissionStore) UpsertTextStage(ctx context.Context, studentID, questionID string, stage int, rec domain.TextStage) (*domain.Submission, error) {
	var column string
	switch stage {
	case domain.StagePseudocode:
		column = "stage2"
	case domain.StageCode:
		column = "stage3"
	default:
		return nil, fmt.Errorf("%w: stage %d", domain.ErrInvalidStage, stage)
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", column, err)
	}
	return s.upsertStageColumn(ctx, studentID, questionID, column, payload)
}

// upsertStageColumn writes exactly one stage column. column is one of the
// fixed names stage1/stage2/stage3, never caller input.
func (s *SubmissionStore) upsertStageColumn(ctx context.Context, studentID, questionID, column string, payload []byte) (*domain.Submission, error) {
	now := time.Now()
	query := fmt.Sprintf(`
		INSERT INTO submissions (id, student_id, question_id, %[1]s, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (student_id, question_id) DO UPDATE SET
			%[1]s = EXCLUDED.%[1]s,
			updated_at = EXCLUDED.updated_at`, column)

	_, err := s.pool.Exec(ctx, query,
		uuid.NewString(), studentID, questionID, payload, now)
	if err != nil {
		return nil, fmt.Errorf("upsert submission %s: %w", column, err)
	}

	return s.Get(ctx, studentID, questionID)
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var sub domain.Submission
	var id string
	var stage1, stage2, stage3 []byte
	err := row.Scan(&id, &sub.StudentID, &sub.QuestionID, &stage1, &stage2, &stage3, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	sub.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse submission id: %w", err)
	}

	if stage1 != nil {
		sub.Stage1 = &domain.FlowchartStage{}
		if err := json.Unmarshal(stage1, sub.Stage1); err != nil {
			return nil, fmt.Errorf("unmarshal stage1: %w", err)
		}
	}
	if stage2 != nil {
		sub.Stage2 = &domain.TextStage{}
		if err := json.Unmarshal(stage2, sub.Stage2); err != nil {
			return nil, fmt.Errorf("unmarshal stage2: %w", err)
		}
	}
	if stage3 != nil {
		sub.Stage3 = &domain.TextStage{}
		if err := json.Unmarshal(stage3, sub.Stage3); err != nil {
			return nil, fmt.Errorf("unmarshal stage3: %w", err)
		}
	}
	return &sub, nil
}
