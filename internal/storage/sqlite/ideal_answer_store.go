package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// IdealAnswerStore implements ideal-answer persistence backed by SQLite.
// The question_id primary key is the concurrency control: racing writers
// both call PutIfAbsent and both get the single stored record back.
type IdealAnswerStore struct {
	db *DB
}

// NewIdealAnswerStore creates a new SQLite-backed ideal answer store.
func NewIdealAnswerStore(db *DB) *IdealAnswerStore {
	return &IdealAnswerStore{db: db}
}

// Get returns the cached answer for a question.
func (s *IdealAnswerStore) Get(ctx context.Context, questionID string) (*domain.IdealAnswer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT question_id, flow_spec, version, generated_at
		FROM ideal_answers WHERE question_id = ?`, questionID)
	return scanIdealAnswer(row)
}

// PutIfAbsent stores ans unless the question already has an answer, then
// returns whichever record is durably stored.
func (s *IdealAnswerStore) PutIfAbsent(ctx context.Context, ans domain.IdealAnswer) (*domain.IdealAnswer, error) {
	spec, err := json.Marshal(ans.FlowSpec)
	if err != nil {
		return nil, fmt.Errorf("marshal flow spec: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ideal_answers (question_id, flow_spec, version, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(question_id) DO NOTHING`,
		ans.QuestionID, string(spec), ans.Version, ans.GeneratedAt)
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ideal_answers (question_id, flow_spec, version, generated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(question_id) DO UPDATE SET
			flow_spec = excluded.flow_spec,
			version = ideal_answers.version + 1,
			generated_at = excluded.generated_at`,
		ans.QuestionID, string(spec), ans.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("replace ideal answer: %w", err)
	}

	return s.Get(ctx, ans.QuestionID)
}

func scanIdealAnswer(row rowScanner) (*domain.IdealAnswer, error) {
	var ans domain.IdealAnswer
	var spec string
	err := row.Scan(&ans.QuestionID, &spec, &ans.Version, &ans.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIdealAnswerNotFound
		}
		return nil, fmt.Errorf("scan ideal answer: %w", err)
	}
	if err := json.Unmarshal([]byte(spec), &ans.FlowSpec); err != nil {
		return nil, fmt.Errorf("unmarshal flow spec: %w", err)
	}
	return &ans, nil
}
