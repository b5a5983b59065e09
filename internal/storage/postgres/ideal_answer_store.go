package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// IdealAnswerStore implements ideal-answer persistence backed by PostgreSQL.
type IdealAnswerStore struct {
	pool *pgxpool.Pool
}

// NewIdealAnswerStore creates a new Postgres-backed ideal answer store.
func NewIdealAnswerStore(pool *pgxpool.Pool) *IdealAnswerStore {
	return &IdealAnswerStore{pool: pool}
}

// Get returns the cached answer for a question.
func (s *IdealAnswerStore) Get(ctx context.Context, questionID string) (*domain.IdealAnswer, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT question_id, flow_spec, version, generated_at
		FROM ideal_answers WHERE question_id = $1`, questionID)
	return scanIdealAnswer(row)
}

// PutIfAbsent stores ans unless the question already has an answer, then
// returns whichever record is durably stored.
func (s *IdealAnswerStore) PutIfAbsent(ctx context.Context, ans domain.IdealAnswer) (*domain.IdealAnswer, error) {
	spec, err := json.Marshal(ans.FlowSpec)
	if err != nil {
		return nil, fmt.Errorf("marshal flow spec: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO ideal_answers (question_id, flow_spec, version, generated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (question_id) DO NOTHING`,
		ans.QuestionID, spec, ans.Version, ans.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("put ideal answer: %w", err)
	}

	return s.Get(ctx, ans.QuestionID)
}

// Replace overwrites the cached answer, bumping the version tag.
func (s *IdealAnswerStore) Replace(ctx context.Context, ans domain.IdealAnswer) (*domain.IdealAnswer, error) {
	spec, err := json.Marshal(ans.FlowSpec)
	if err != nil {
		return nil, fmt.Errorf("marshal flow spec: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO ideal_answers (question_id, flow_spec, version, generated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (question_id) DO UPDATE SET
			flow_spec = EXCLUDED.flow_spec,
			version = ideal_answers.version + 1,
			generated_at = EXCLUDED.generated_at`,
		ans.QuestionID, spec, ans.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("replace ideal answer: %w", err)
	}

	return s.Get(ctx, ans.QuestionID)
}

func scanIdealAnswer(row rowScanner) (*domain.IdealAnswer, error) {
	var ans domain.IdealAnswer
	var spec []byte
	err := row.Scan(&ans.QuestionID, &spec, &ans.Version, &ans.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIdealAnswerNotFound
		}
		return nil, fmt.Errorf("scan ideal answer: %w", err)
	}
	if err := json.Unmarshal(spec, &ans.FlowSpec); err != nil {
		return nil, fmt.Errorf("unmarshal flow spec: %w", err)
	}
	return &ans, nil
}
