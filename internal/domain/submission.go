package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Stage numbers of the three-step pedagogy.
const (
	StageFlowchart  = 1
	StagePseudocode = 2
	StageCode       = 3
)

// FlowchartStage is the stage-1 sub-record: the raw editor graph (or image
// reference), the derived spec, and the latest grading result.
type FlowchartStage struct {
	Graph     json.RawMessage `json:"graph,omitempty"`
	FlowSpec  *FlowSpec       `json:"flowSpec,omitempty"`
	Scores    *Scores         `json:"scores,omitempty"`
	Diffs     *Diff           `json:"diffs,omitempty"`
	Feedback  string          `json:"feedback,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TextStage is a stage-2 (pseudocode) or stage-3 (code) sub-record.
type TextStage struct {
	Content   string    `json:"content"`
	Language  string    `json:"language,omitempty"`
	Feedback  string    `json:"feedback,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Submission is one student's work on one question. At most one submission
// exists per (student, question) pair; stages are independently updatable.
type Submission struct {
	ID         uuid.UUID       `json:"id"`
	StudentID  string          `json:"studentId"`
	QuestionID string          `json:"questionId"`
	Stage1     *FlowchartStage `json:"stage1,omitempty"`
	Stage2     *TextStage      `json:"stage2,omitempty"`
	Stage3     *TextStage      `json:"stage3,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// IdealAnswer is the cached reference spec a question is graded against,
// generated once per question and reused.
type IdealAnswer struct {
	QuestionID  string    `json:"questionId"`
	FlowSpec    FlowSpec  `json:"flowSpec"`
	Version     int       `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Question is a word problem students work through.
type Question struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Topic       string    `json:"topic,omitempty"`
	// Templates holds the per-stage starter material (pseudocode skeleton,
	// code scaffold) keyed by stage name.
	Templates map[string]string `json:"templates,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
