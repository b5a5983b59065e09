// Package question manages the word-problem bank: lookup, authoring, seeding
// from file, and model-assisted question generation for teachers.
package question

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/flowtutor/flowtutor/internal/domain"
	"github.com/flowtutor/flowtutor/internal/llm"
)

// Service provides question operations over a store and an optional model
// client for authoring assistance.
type Service struct {
	store    Store
	provider llm.Provider
}

// NewService creates a question service. provider may be nil; then Generate
// is unavailable but everything else works.
func NewService(store Store, provider llm.Provider) *Service {
	return &Service{store: store, provider: provider}
}

// Get looks a question up by id or title.
func (s *Service) Get(ctx context.Context, idOrTitle string) (*domain.Question, error) {
	if strings.TrimSpace(idOrTitle) == "" {
		return nil, fmt.Errorf("%w: empty question key", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, idOrTitle)
}

// List returns all questions.
func (s *Service) List(ctx context.Context) ([]domain.Question, error) {
	return s.store.List(ctx)
}

// Save creates or updates a question. A missing id gets a fresh uuid.
func (s *Service) Save(ctx context.Context, q domain.Question) (*domain.Question, error) {
	if strings.TrimSpace(q.Title) == "" {
		return nil, fmt.Errorf("%w: question title required", domain.ErrInvalidInput)
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return s.store.Upsert(ctx, q)
}

// DescriptionOrEmpty resolves a question's statement text, degrading to an
// empty string when the question is unknown; grading proceeds either way.
func (s *Service) DescriptionOrEmpty(ctx context.Context, idOrTitle string) string {
	q, err := s.store.Get(ctx, idOrTitle)
	if err != nil {
		if !errors.Is(err, domain.ErrQuestionNotFound) {
			slog.Warn("question lookup failed", "question", idOrTitle, "error", err)
		}
		return ""
	}
	return q.Description
}

const generateSystemPrompt = `You write beginner programming word problems for a three-stage course
(flowchart, pseudocode, code). Respond with ONLY a JSON object, no Markdown fences, with fields
"title", "description", "templates" (object with "pseudocode" and "code" starter skeletons).
Write title and description in Traditional Chinese.`

// Generate asks the model to draft a question on a topic. The draft is not
// stored; the teacher reviews and saves it explicitly.
func (s *Service) Generate(ctx context.Context, topic string) (*domain.Question, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("%w: no model client configured", domain.ErrGeneration)
	}

	resp, err := s.provider.Generate(ctx, &llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Topic: " + topic},
		},
		System:      generateSystemPrompt,
		MaxTokens:   1024,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	var draft struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Templates   map[string]string `json:"templates"`
	}
	if err := llm.DecodeJSON(resp.Content, &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelOutput, err)
	}

	return &domain.Question{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Topic:       topic,
		Templates:   draft.Templates,
	}, nil
}

// seedFile is the YAML shape of a question seed file.
type seedFile struct {
	Questions []struct {
		ID          string            `yaml:"id"`
		Title       string            `yaml:"title"`
		Description string            `yaml:"description"`
		Topic       string            `yaml:"topic"`
		Templates   map[string]string `yaml:"templates"`
	} `yaml:"questions"`
}

// SeedFromFile loads questions from a YAML file and upserts them, so restarts
// are idempotent. Used at daemon startup when a seed path is configured.
func (s *Service) SeedFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	count := 0
	now := time.Now()
	for _, q := range seed.Questions {
		id := q.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := s.store.Upsert(ctx, domain.Question{
			ID:          id,
			Title:       q.Title,
			Description: q.Description,
			Topic:       q.Topic,
			Templates:   q.Templates,
			CreatedAt:   now,
		})
		if err != nil {
			return count, fmt.Errorf("seed question %q: %w", q.Title, err)
		}
		count++
	}

	slog.Info("seeded questions", "count", count, "path", path)
	return count, nil
}
