// Package submission orchestrates the per-request grading workflow: resolve
// the question, ensure a reference answer, extract the student's chart,
// compare, compose feedback, persist. The persistence write happens only
// after all computation succeeds; there are no partial writes.
package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flowtutor/flowtutor/internal/domain"
	"github.com/flowtutor/flowtutor/internal/extract"
	"github.com/flowtutor/flowtutor/internal/feedback"
	"github.com/flowtutor/flowtutor/internal/flowspec"
	"github.com/flowtutor/flowtutor/internal/ideal"
	"github.com/flowtutor/flowtutor/internal/question"
)

// Service is the request-scoped grading orchestrator. Each call recomputes
// its full result from its own input; concurrent submissions race only on
// the final upsert, where last write wins.
type Service struct {
	questions *question.Service
	ideals    *ideal.Service
	extractor *extract.Service
	composer  *feedback.Composer
	store     Store
}

// NewService wires the orchestrator.
func NewService(questions *question.Service, ideals *ideal.Service, extractor *extract.Service, composer *feedback.Composer, store Store) *Service {
	return &Service{
		questions: questions,
		ideals:    ideals,
		extractor: extractor,
		composer:  composer,
		store:     store,
	}
}

// CheckFlowchartRequest is one stage-1 grading request.
type CheckFlowchartRequest struct {
	StudentID      string
	QuestionID     string
	Graph          *flowspec.EditorGraph
	ImageBase64    string
	ImageMediaType string
}

// CheckFlowchartResult is returned to the caller after a successful check.
type CheckFlowchartResult struct {
	SubmissionID string        `json:"submissionId"`
	Scores       domain.Scores `json:"scores"`
	Diffs        domain.Diff   `json:"diffs"`
	Feedback     string        `json:"feedback"`
}

// CheckFlowchart grades one flowchart submission end to end.
func (s *Service) CheckFlowchart(ctx context.Context, req CheckFlowchartRequest) (*CheckFlowchartResult, error) {
	if strings.TrimSpace(req.StudentID) == "" || strings.TrimSpace(req.QuestionID) == "" {
		return nil, fmt.Errorf("%w: studentId and questionId required", domain.ErrInvalidInput)
	}
	if req.Graph.Empty() && req.ImageBase64 == "" {
		return nil, fmt.Errorf("%w: graph or imageBase64 required", domain.ErrInvalidInput)
	}

	questionText := s.questions.DescriptionOrEmpty(ctx, req.QuestionID)

	ans, err := s.ideals.Ensure(ctx, req.QuestionID, questionText)
	if err != nil {
		return nil, err
	}
	idealSpec := flowspec.Normalize(ans.FlowSpec, nil)

	studentSpec, err := s.extractor.Extract(ctx, extract.Input{
		Graph:          req.Graph,
		ImageBase64:    req.ImageBase64,
		ImageMediaType: req.ImageMediaType,
		QuestionText:   questionText,
	})
	if err != nil {
		return nil, err
	}

	diff, scores := flowspec.Compare(idealSpec, studentSpec)
	text := s.composer.Compose(ctx, questionText, diff, scores)

	stage := domain.FlowchartStage{
		FlowSpec:  &studentSpec,
		Scores:    &scores,
		Diffs:     &diff,
		Feedback:  text,
		UpdatedAt: time.Now(),
	}
	if !req.Graph.Empty() {
		if raw, err := json.Marshal(req.Graph); err == nil {
			stage.Graph = raw
		}
	}

	sub, err := s.store.UpsertFlowchartStage(ctx, req.StudentID, req.QuestionID, stage)
	if err != nil {
		return nil, err
	}

	slog.Info("flowchart checked",
		"student_id", req.StudentID,
		"question_id", req.QuestionID,
		"total", scores.Total,
	)

	return &CheckFlowchartResult{
		SubmissionID: sub.ID.String(),
		Scores:       scores,
		Diffs:        diff,
		Feedback:     text,
	}, nil
}

// SaveStage persists a stage-2 (pseudocode) or stage-3 (code) draft.
func (s *Service) SaveStage(ctx context.Context, studentID, questionID string, stage int, content, language string) (*domain.Submission, error) {
	if strings.TrimSpace(studentID) == "" || strings.TrimSpace(questionID) == "" {
		return nil, fmt.Errorf("%w: studentId and questionId required", domain.ErrInvalidInput)
	}
	if stage != domain.StagePseudocode && stage != domain.StageCode {
		return nil, fmt.Errorf("%w: stage %d", domain.ErrInvalidStage, stage)
	}

	return s.store.UpsertTextStage(ctx, studentID, questionID, stage, domain.TextStage{
		Content:   content,
		Language:  language,
		UpdatedAt: time.Now(),
	})
}

// Get returns a student's submission with all stages.
func (s *Service) Get(ctx context.Context, studentID, questionID string) (*domain.Submission, error) {
	return s.store.Get(ctx, studentID, questionID)
}
