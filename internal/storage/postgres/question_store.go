package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// QuestionStore implements question persistence backed by PostgreSQL.
type QuestionStore struct {
	pool *pgxpool.Pool
}

// NewQuestionStore creates a new Postgres-backed question store.
func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

// Get looks a question up by id or exact title.
func (s *QuestionStore) Get(ctx context.Context, idOrTitle string) (*domain.Question, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, description, topic, templates, created_at, updated_at
		FROM questions WHERE id = $1 OR title = $1`, idOrTitle)
	return scanQuestion(row)
}

// List returns all questions ordered by title.
func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
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

// Upsert inserts or updates a question, matching an existing row by id or
// title; created_at is only written on insert.
func (s *QuestionStore) Upsert(ctx context.Context, q domain.Question) (*domain.Question, error) {
	templates, err := json.Marshal(q.Templates)
	if err != nil {
		return nil, fmt.Errorf("marshal templates: %w", err)
	}
	if q.Templates == nil {
		templates = []byte("{}")
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
		_, err = s.pool.Exec(ctx, `
			UPDATE questions
			SET title = $1, description = $2, topic = $3, templates = $4, updated_at = $5
			WHERE id = $6`,
			q.Title, q.Description, q.Topic, templates, now, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("update question: %w", err)
		}
		return s.Get(ctx, existing.ID)
	}

	createdAt := q.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO questions (id, title, description, topic, templates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		q.ID, q.Title, q.Description, q.Topic, templates, createdAt, now)
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
	var templates []byte
	err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Topic, &templates, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal(templates, &q.Templates); err != nil {
		return nil, fmt.Errorf("unmarshal templates: %w", err)
	}
	return &q, nil
}
