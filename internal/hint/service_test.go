package hint

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/flowtutor/flowtutor/internal/domain"
	"github.com/flowtutor/flowtutor/internal/llm"
)

type stubProvider struct {
	content string
	err     error
	lastReq *llm.Request
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) SupportsVision() bool { return false }

func (s *stubProvider) Generate(_ context.Context, req *llm.Request) (*llm.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.content}, nil
}

func TestHint_UnknownStage(t *testing.T) {
	svc := NewService(&stubProvider{})

	for _, stage := range []int{0, 4, -1} {
		_, err := svc.Hint(context.Background(), Request{Stage: stage})
		if !errors.Is(err, domain.ErrInvalidStage) {
			t.Errorf("stage %d: error = %v, want ErrInvalidStage", stage, err)
		}
	}
}

func TestHint_StageFocusInPrompt(t *testing.T) {
	tests := []struct {
		stage int
		want  string
	}{
		{domain.StageFlowchart, "流程圖"},
		{domain.StagePseudocode, "虛擬碼"},
		{domain.StageCode, "程式碼"},
	}

	for _, tt := range tests {
		provider := &stubProvider{content: "hint"}
		svc := NewService(provider)

		if _, err := svc.Hint(context.Background(), Request{Stage: tt.stage, QuestionText: "q"}); err != nil {
			t.Fatalf("stage %d: Hint() error = %v", tt.stage, err)
		}

		prompt := provider.lastReq.Messages[0].Content
		if !strings.Contains(prompt, tt.want) {
			t.Errorf("stage %d prompt missing %q: %q", tt.stage, tt.want, prompt)
		}
	}
}

func TestHint_CarriesWorkAndAsk(t *testing.T) {
	provider := &stubProvider{content: "想想迴圈的結束條件"}
	svc := NewService(provider)

	got, err := svc.Hint(context.Background(), Request{
		Stage:        domain.StagePseudocode,
		QuestionText: "計算平均",
		Work:         "WHILE ...",
		Ask:          "我卡在迴圈",
	})
	if err != nil {
		t.Fatalf("Hint() error = %v", err)
	}

	if got != "想想迴圈的結束條件" {
		t.Errorf("Hint() = %q, want model content", got)
	}

	prompt := provider.lastReq.Messages[0].Content
	for _, want := range []string{"計算平均", "WHILE ...", "我卡在迴圈"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestHint_ModelFailure(t *testing.T) {
	svc := NewService(&stubProvider{err: errors.New("boom")})

	_, err := svc.Hint(context.Background(), Request{Stage: domain.StageFlowchart})
	if err == nil {
		t.Fatal("Hint() expected error on model failure")
	}
}
