// Package feedback turns a comparison result into guidance a student can act
// on. The primary path asks a language model for Socratic phrasing; a
// deterministic template fallback guarantees the composer never fails.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/flowtutor/flowtutor/internal/domain"
	"github.com/flowtutor/flowtutor/internal/llm"
)

const composerSystemPrompt = `You are a patient programming tutor reviewing a student's flowchart.
Write guidance in Traditional Chinese, at most 150 characters.
Ask guiding questions about the reported issues; do NOT reveal or re-derive the correct answer.
If the report lists no issues, reply with exactly: ` + praiseMessage

// Composer builds feedback text. A nil provider is valid and always takes
// the fallback path.
type Composer struct {
	provider llm.Provider
}

// NewComposer creates a feedback composer.
func NewComposer(provider llm.Provider) *Composer {
	return &Composer{provider: provider}
}

// Compose returns feedback for a graded submission. It never returns an
// error: any failure of the model path degrades to the template fallback.
func (c *Composer) Compose(ctx context.Context, questionText string, diff domain.Diff, scores domain.Scores) string {
	if c.provider != nil {
		text, err := c.fromModel(ctx, questionText, diff, scores)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if err != nil {
			slog.Warn("feedback model call failed, using fallback", "error", err)
		}
	}
	return Fallback(diff, scores)
}

// fromModel sends the diff and scores (never the full specs) to the model.
func (c *Composer) fromModel(ctx context.Context, questionText string, diff domain.Diff, scores domain.Scores) (string, error) {
	report, err := json.Marshal(map[string]any{
		"diffs":  diff,
		"scores": scores,
	})
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	var sb strings.Builder
	if questionText != "" {
		sb.WriteString("題目：")
		sb.WriteString(questionText)
		sb.WriteString("\n\n")
	}
	sb.WriteString("批改結果：\n")
	sb.Write(report)

	resp, err := c.provider.Generate(ctx, &llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: sb.String()},
		},
		System:      composerSystemPrompt,
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Fallback deterministically assembles guidance from canned strings, one per
// non-empty diff category, prefixed with the rounded percentage total.
func Fallback(diff domain.Diff, scores domain.Scores) string {
	if diff.Empty() {
		return praiseMessage
	}

	var hints []string
	if len(diff.StructureIssues) > 0 {
		hints = append(hints, structureGuidance)
	}
	if len(diff.MissingNodes) > 0 {
		hints = append(hints, missingNodesGuidance)
	}
	if len(diff.MissingEdges) > 0 {
		hints = append(hints, missingEdgesGuidance)
	}
	if len(diff.LogicIssues) > 0 {
		hints = append(hints, logicGuidance)
	}

	percent := int(math.Round(scores.Total * 100))
	return fmt.Sprintf("目前得分：%d%%。%s", percent, strings.Join(hints, ""))
}
