// Package extract derives a normalized FlowSpec from whatever the student
// submitted: an editor-drawn graph or an uploaded image of a hand-drawn chart.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowtutor/flowtutor/internal/domain"
	"github.com/flowtutor/flowtutor/internal/flowspec"
	"github.com/flowtutor/flowtutor/internal/llm"
)

const imageSystemPrompt = `You read photographs of hand-drawn flowcharts.
Respond with ONLY a JSON object, no explanation and no Markdown fences.`

// Service extracts student answers. The vision-capable model client is
// injected at construction.
type Service struct {
	provider llm.Provider
	synonyms map[string][]string
}

// NewService creates an extractor.
func NewService(provider llm.Provider, synonyms map[string][]string) *Service {
	if synonyms == nil {
		synonyms = flowspec.DefaultSynonyms()
	}
	return &Service{provider: provider, synonyms: synonyms}
}

// Input is one flowchart submission. Graph and image may both be present;
// a non-empty graph wins, being lossless structured data where image parsing
// is a lossy inference.
type Input struct {
	Graph          *flowspec.EditorGraph
	ImageBase64    string
	ImageMediaType string
	QuestionText   string
}

// HasGraph reports whether the drawn graph should be used.
func (in Input) HasGraph() bool {
	return !in.Graph.Empty()
}

// Extract produces the student's normalized FlowSpec from the preferred
// available source.
func (s *Service) Extract(ctx context.Context, in Input) (domain.FlowSpec, error) {
	if in.HasGraph() {
		return s.FromGraph(*in.Graph), nil
	}
	if in.ImageBase64 != "" {
		return s.FromImage(ctx, in.ImageBase64, in.ImageMediaType, in.QuestionText)
	}
	return domain.FlowSpec{}, fmt.Errorf("%w: no graph or image provided", domain.ErrInvalidInput)
}

// FromGraph maps an editor graph through the graph adapter.
func (s *Service) FromGraph(graph flowspec.EditorGraph) domain.FlowSpec {
	return flowspec.MapEditorGraph(graph, s.synonyms)
}

// FromImage asks a vision-capable model to read the chart out of an image.
// Model and decode failures surface distinctly, never as a default spec.
func (s *Service) FromImage(ctx context.Context, imageBase64, mediaType, questionText string) (domain.FlowSpec, error) {
	if mediaType == "" {
		mediaType = "image/png"
	}

	resp, err := s.provider.Generate(ctx, &llm.Request{
		Messages: []llm.Message{
			{
				Role:    llm.RoleUser,
				Content: buildImagePrompt(questionText),
				Images:  []llm.Image{{MediaType: mediaType, Data: imageBase64}},
			},
		},
		System:      imageSystemPrompt,
		MaxTokens:   2048,
		Temperature: 0,
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

func buildImagePrompt(questionText string) string {
	var sb strings.Builder

	sb.WriteString("Transcribe the flowchart in this image as JSON with \"nodes\" and \"edges\".\n")
	sb.WriteString("Node fields: id, type (start|end|input|process|decision|output), label.\n")
	sb.WriteString("Edge fields: id, from, to, label. Standardize decision branch labels to \"yes\" and \"no\".\n")
	sb.WriteString("Keep node labels exactly as written in the image.\n")
	if questionText != "" {
		sb.WriteString("\nThe chart answers this word problem:\n")
		sb.WriteString(questionText)
		sb.WriteString("\n")
	}

	return sb.String()
}
