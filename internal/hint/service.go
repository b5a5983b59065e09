// Package hint generates stage-aware Socratic hints. Unlike feedback
// composition there is no fallback: a failed model call fails the request.
package hint

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowtutor/flowtutor/internal/domain"
	"github.com/flowtutor/flowtutor/internal/llm"
)

// Service generates hints against the injected model client.
type Service struct {
	provider llm.Provider
}

// NewService creates a hint service.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Request describes what the student is stuck on.
type Request struct {
	Stage        int // 1 flowchart, 2 pseudocode, 3 code
	QuestionText string
	Work         string // the student's current draft, any stage
	Ask          string // the student's own question, optional
}

const hintSystemPrompt = `You are a patient programming tutor for beginners.
Reply in Traditional Chinese, at most 100 characters.
Give ONE guiding hint toward the next step. Never reveal the full answer,
never write complete pseudocode or code for the student.`

var stageFocus = map[int]string{
	domain.StageFlowchart:  "學生正在畫流程圖。提示應該聚焦在流程的步驟與分支。",
	domain.StagePseudocode: "學生正在填寫虛擬碼。提示應該聚焦在把流程翻譯成虛擬碼。",
	domain.StageCode:       "學生正在寫程式碼。提示應該聚焦在語法與流程的對應。",
}

// Hint returns one guiding hint for the request.
func (s *Service) Hint(ctx context.Context, req Request) (string, error) {
	focus, ok := stageFocus[req.Stage]
	if !ok {
		return "", fmt.Errorf("%w: stage %d", domain.ErrInvalidStage, req.Stage)
	}

	var sb strings.Builder
	sb.WriteString(focus)
	sb.WriteString("\n\n題目：\n")
	sb.WriteString(req.QuestionText)
	if req.Work != "" {
		sb.WriteString("\n\n學生目前的作答：\n")
		sb.WriteString(req.Work)
	}
	if req.Ask != "" {
		sb.WriteString("\n\n學生的問題：\n")
		sb.WriteString(req.Ask)
	}

	resp, err := s.provider.Generate(ctx, &llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: sb.String()},
		},
		System:      hintSystemPrompt,
		MaxTokens:   256,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generate hint: %w", err)
	}

	return strings.TrimSpace(resp.Content), nil
}
