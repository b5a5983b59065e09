package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/flowtutor/flowtutor/internal/domain"
	"github.com/flowtutor/flowtutor/internal/flowspec"
	"github.com/flowtutor/flowtutor/internal/llm"
)

type stubProvider struct {
	content string
	err     error
	calls   int
	lastReq *llm.Request
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) SupportsVision() bool { return true }

func (s *stubProvider) Generate(_ context.Context, req *llm.Request) (*llm.Response, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.content}, nil
}

func TestExtract_NoInput(t *testing.T) {
	svc := NewService(&stubProvider{}, nil)

	_, err := svc.Extract(context.Background(), Input{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}

	// An empty graph counts as absent.
	_, err = svc.Extract(context.Background(), Input{Graph: &flowspec.EditorGraph{}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput for empty graph", err)
	}
}

func TestExtract_GraphWinsOverImage(t *testing.T) {
	provider := &stubProvider{}
	svc := NewService(provider, nil)

	graph := &flowspec.EditorGraph{
		Nodes: []flowspec.EditorNode{{ID: "a", Type: "rectangle", Label: "帶傘"}},
	}

	spec, err := svc.Extract(context.Background(), Input{
		Graph:       graph,
		ImageBase64: "aW1hZ2U=",
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0 (graph path must not call the model)", provider.calls)
	}
	if len(spec.Nodes) != 1 || spec.Nodes[0].Label != "umbrella" {
		t.Errorf("spec = %+v, want one normalized node", spec.Nodes)
	}
}

func TestExtract_ImagePath(t *testing.T) {
	provider := &stubProvider{content: `{"nodes":[{"id":"n1","type":"start","label":"開始"}],"edges":[]}`}
	svc := NewService(provider, nil)

	spec, err := svc.Extract(context.Background(), Input{
		ImageBase64:  "aW1hZ2U=",
		QuestionText: "下雨要帶傘",
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.calls)
	}

	msg := provider.lastReq.Messages[0]
	if len(msg.Images) != 1 {
		t.Fatalf("images in request = %d, want 1", len(msg.Images))
	}
	if msg.Images[0].MediaType != "image/png" {
		t.Errorf("media type = %q, want image/png default", msg.Images[0].MediaType)
	}
	if msg.Images[0].Data != "aW1hZ2U=" {
		t.Errorf("image data = %q, want passthrough", msg.Images[0].Data)
	}

	if len(spec.Nodes) != 1 || spec.Nodes[0].Label != "start" {
		t.Errorf("spec = %+v, want normalized start node", spec.Nodes)
	}
}

func TestFromImage_MediaTypeRespected(t *testing.T) {
	provider := &stubProvider{content: `{"nodes":[],"edges":[]}`}
	svc := NewService(provider, nil)

	if _, err := svc.FromImage(context.Background(), "data", "image/jpeg", ""); err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	if got := provider.lastReq.Messages[0].Images[0].MediaType; got != "image/jpeg" {
		t.Errorf("media type = %q, want image/jpeg", got)
	}
}

func TestFromImage_ModelFailure(t *testing.T) {
	svc := NewService(&stubProvider{err: errors.New("boom")}, nil)

	_, err := svc.FromImage(context.Background(), "data", "", "")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("error = %v, want ErrGeneration", err)
	}
}

func TestFromImage_UnparseableTranscription(t *testing.T) {
	svc := NewService(&stubProvider{content: "a hand-drawn chart of some kind"}, nil)

	_, err := svc.FromImage(context.Background(), "data", "", "")
	if !errors.Is(err, domain.ErrModelOutput) {
		t.Errorf("error = %v, want ErrModelOutput", err)
	}
}
