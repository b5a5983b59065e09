package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// QuestionStore implements question persistence backed by SQLite.
type QuestionStore struct {
	db *DB
}

// NewQuestionStore creates a new SQLite-backed question store.
func NewQuestionStore(db *DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// Get looks a question up by id or exact title.
func (s *QuestionStore) Get(ctx context.Context, idOrTitle string) (*domain.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, topic, templates, created_at, updated_at
		FROM questions WHERE id = ? OR title = ?`, idOrTitle, idOrTitle)
	return scanQuestion(row)
}

// List returns all questions ordered by title.
func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, topic, templates, created_at, updated_at
		FROM questions ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// Upsert inserts or updates a question. An existing row is matched by id or
// title so re-seeding the same titles stays idempotent; created_at is only
// written on insert.
func (s *QuestionStore) Upsert(ctx context.Context, q domain.Question) (*domain.Question, error) {
	templates, err := json.Marshal(orEmpty(q.Templates))
	if err != nil {
		return nil, fmt.Errorf("marshal templates: %w", err)
	}

	now := time.Now()
	existing, err := s.Get(ctx, q.ID)
	if errors.Is(err, domain.ErrQuestionNotFound) {
		existing, err = s.Get(ctx, q.Title)
	}
	if err != nil && !errors.Is(err, domain.ErrQuestionNotFound) {
		return nil, err
	}

	if existing != nil {
		_, err = s.db.ExecContext(ctx, `
			UPDATE questions
			SET title = ?, description = ?, topic = ?, templates = ?, updated_at = ?
			WHERE id = ?`,
			q.Title, q.Description, q.Topic, string(templates), now, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("update question: %w", err)
		}
		return s.Get(ctx, existing.ID)
	}

	createdAt := q.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questions (id, title, description, topic, templates, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Title, q.Description, q.Topic, string(templates), createdAt, now)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	return s.Get(ctx, q.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var q domain.Question
	var templates string
	err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Topic, &templates, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal([]byte(templates), &q.Templates); err != nil {
		return nil, fmt.Errorf("unmarshal templates: %w", err)
	}
	return &q, nil
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
