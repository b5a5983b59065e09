package ideal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowtutor/flowtutor/internal/domain"
	"github.com/flowtutor/flowtutor/internal/flowspec"
	"github.com/flowtutor/flowtutor/internal/llm"
)

// Service generates and caches reference flowcharts. The language-model
// client is injected; the service holds no global state.
type Service struct {
	provider llm.Provider
	store    Store
	synonyms map[string][]string
}

// NewService creates an ideal-answer service.
func NewService(provider llm.Provider, store Store, synonyms map[string][]string) *Service {
	if synonyms == nil {
		synonyms = flowspec.DefaultSynonyms()
	}
	return &Service{provider: provider, store: store, synonyms: synonyms}
}

// Generate synthesizes a reference FlowSpec for a problem statement. A failed
// model call or unparseable response surfaces as domain.ErrGeneration /
// domain.ErrModelOutput; it is never converted to a default spec.
func (s *Service) Generate(ctx context.Context, questionText string) (domain.FlowSpec, error) {
	resp, err := s.provider.Generate(ctx, &llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGeneratePrompt(questionText)},
		},
		System:      generateSystemPrompt,
		MaxTokens:   2048,
		Temperature: 0.2,
	})
	if err != nil {
		return domain.FlowSpec{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	var raw domain.FlowSpec
	if err := llm.DecodeJSON(resp.Content, &raw); err != nil {
		return domain.FlowSpec{}, fmt.Errorf("%w: %v", domain.ErrModelOutput, err)
	}

	return flowspec.Normalize(raw, s.synonyms), nil
}

// Get returns the cached answer for a question without generating one.
func (s *Service) Get(ctx context.Context, questionID string) (*domain.IdealAnswer, error) {
	return s.store.Get(ctx, questionID)
}

// Ensure returns the cached answer for a question, generating and storing one
// on first use. Concurrent callers may both generate; the store's
// put-if-absent keeps exactly one and both callers get that record.
func (s *Service) Ensure(ctx context.Context, questionID, questionText string) (*domain.IdealAnswer, error) {
	ans, err := s.store.Get(ctx, questionID)
	if err == nil {
		return ans, nil
	}
	if !errors.Is(err, domain.ErrIdealAnswerNotFound) {
		return nil, err
	}

	spec, err := s.Generate(ctx, questionText)
	if err != nil {
		return nil, err
	}

	slog.Info("generated ideal answer", "question_id", questionID)

	return s.store.PutIfAbsent(ctx, domain.IdealAnswer{
		QuestionID:  questionID,
		FlowSpec:    spec,
		Version:     1,
		GeneratedAt: time.Now(),
	})
}

// Regenerate forces a fresh generation and overwrites the cached answer.
func (s *Service) Regenerate(ctx context.Context, questionID, questionText string) (*domain.IdealAnswer, error) {
	spec, err := s.Generate(ctx, questionText)
	if err != nil {
		return nil, err
	}

	slog.Info("regenerated ideal answer", "question_id", questionID)

	return s.store.Replace(ctx, domain.IdealAnswer{
		QuestionID:  questionID,
		FlowSpec:    spec,
		GeneratedAt: time.Now(),
	})
}
