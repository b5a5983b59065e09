package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/flowtutor/flowtutor/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestQuestionStore(t *testing.T) {
	store := NewQuestionStore(openTestDB(t))
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrQuestionNotFound", err)
	}

	saved, err := store.Upsert(ctx, domain.Question{
		ID:          "q1",
		Title:       "下雨要帶傘",
		Description: "畫出是否帶傘的流程圖",
		Topic:       "conditionals",
		Templates:   map[string]string{"pseudocode": "IF ..."},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Error("timestamps not set on insert")
	}

	byTitle, err := store.Get(ctx, "下雨要帶傘")
	if err != nil {
		t.Fatalf("Get() by title error = %v", err)
	}
	if byTitle.ID != "q1" {
		t.Errorf("Get() by title id = %q, want q1", byTitle.ID)
	}
	if byTitle.Templates["pseudocode"] != "IF ..." {
		t.Errorf("templates = %v, want round-tripped map", byTitle.Templates)
	}

	// Upsert with a fresh id but the same title must update the existing
	// row, keeping the original id (seed idempotence).
	updated, err := store.Upsert(ctx, domain.Question{
		ID:          "different-id",
		Title:       "下雨要帶傘",
		Description: "改過的敘述",
	})
	if err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if updated.ID != "q1" {
		t.Errorf("updated id = %q, want q1 (matched by title)", updated.ID)
	}
	if updated.Description != "改過的敘述" {
		t.Errorf("description = %q, want updated text", updated.Description)
	}
	if !updated.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("created_at changed on update: %v -> %v", saved.CreatedAt, updated.CreatedAt)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("List() returned %d questions, want 1", len(all))
	}
}

func TestIdealAnswerStore(t *testing.T) {
	store := NewIdealAnswerStore(openTestDB(t))
	ctx := context.Background()

	_, err := store.Get(ctx, "q1")
	if !errors.Is(err, domain.ErrIdealAnswerNotFound) {
		t.Errorf("Get() error = %v, want ErrIdealAnswerNotFound", err)
	}

	spec := domain.FlowSpec{
		Nodes: []domain.Node{{ID: "n1", Type: "start", Label: "start", Required: true}},
	}

	first, err := store.PutIfAbsent(ctx, domain.IdealAnswer{
		QuestionID:  "q1",
		FlowSpec:    spec,
		Version:     1,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("PutIfAbsent() error = %v", err)
	}
	if first.Version != 1 {
		t.Errorf("version = %d, want 1", first.Version)
	}
	if len(first.FlowSpec.Nodes) != 1 || first.FlowSpec.Nodes[0].Label != "start" {
		t.Errorf("flow spec did not round-trip: %+v", first.FlowSpec)
	}

	// A second writer loses the race: the stored record wins.
	loser := domain.FlowSpec{
		Nodes: []domain.Node{{ID: "x", Type: "end", Label: "end"}},
	}
	kept, err := store.PutIfAbsent(ctx, domain.IdealAnswer{
		QuestionID:  "q1",
		FlowSpec:    loser,
		Version:     1,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("second PutIfAbsent() error = %v", err)
	}
	if kept.FlowSpec.Nodes[0].Label != "start" {
		t.Errorf("PutIfAbsent overwrote the existing answer: %+v", kept.FlowSpec)
	}

	replaced, err := store.Replace(ctx, domain.IdealAnswer{
		QuestionID:  "q1",
		FlowSpec:    loser,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if replaced.Version != 2 {
		t.Errorf("version after replace = %d, want 2", replaced.Version)
	}
	if replaced.FlowSpec.Nodes[0].Label != "end" {
		t.Errorf("Replace did not overwrite the flow spec: %+v", replaced.FlowSpec)
	}
}

func TestIdealAnswerStore_ReplaceWithoutExisting(t *testing.T) {
	store := NewIdealAnswerStore(openTestDB(t))

	ans, err := store.Replace(context.Background(), domain.IdealAnswer{
		QuestionID:  "fresh",
		FlowSpec:    domain.FlowSpec{},
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if ans.Version != 1 {
		t.Errorf("version = %d, want 1 on first write", ans.Version)
	}
}

func TestSubmissionStore(t *testing.T) {
	store := NewSubmissionStore(openTestDB(t))
	ctx := context.Background()

	_, err := store.Get(ctx, "s1", "q1")
	if !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Errorf("Get() error = %v, want ErrSubmissionNotFound", err)
	}

	scores := domain.Scores{Structure: 1, Nodes: 0.5, Edges: 0, Logic: 1, Total: 0.65}
	first, err := store.UpsertFlowchartStage(ctx, "s1", "q1", domain.FlowchartStage{
		Scores:    &scores,
		Feedback:  "目前得分：65%。",
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("UpsertFlowchartStage() error = %v", err)
	}
	if first.Stage1 == nil || first.Stage1.Scores.Total != 0.65 {
		t.Fatalf("stage1 = %+v, want persisted scores", first.Stage1)
	}
	if first.Stage2 != nil || first.Stage3 != nil {
		t.Error("text stages should be empty")
	}

	// Writing stage 2 must not disturb stage 1.
	second, err := store.UpsertTextStage(ctx, "s1", "q1", domain.StagePseudocode, domain.TextStage{
		Content:   "IF 下雨 THEN 帶傘",
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("UpsertTextStage() error = %v", err)
	}
	if second.Stage1 == nil {
		t.Error("stage1 lost after stage2 write")
	}
	if second.Stage2 == nil || second.Stage2.Content != "IF 下雨 THEN 帶傘" {
		t.Errorf("stage2 = %+v, want saved draft", second.Stage2)
	}
	if second.ID != first.ID {
		t.Errorf("submission id changed across stage writes: %v -> %v", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on upsert: %v -> %v", first.CreatedAt, second.CreatedAt)
	}

	// Re-checking the flowchart overwrites only stage 1.
	rescores := domain.Scores{Structure: 1, Nodes: 1, Edges: 1, Logic: 1, Total: 1}
	third, err := store.UpsertFlowchartStage(ctx, "s1", "q1", domain.FlowchartStage{
		Scores:    &rescores,
		Feedback:  "太棒了！",
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("second UpsertFlowchartStage() error = %v", err)
	}
	if third.Stage1.Scores.Total != 1 {
		t.Errorf("stage1 total = %v, want 1 after regrade", third.Stage1.Scores.Total)
	}
	if third.Stage2 == nil {
		t.Error("stage2 lost after stage1 rewrite")
	}

	// Different students do not collide.
	other, err := store.UpsertTextStage(ctx, "s2", "q1", domain.StageCode, domain.TextStage{Content: "print()"})
	if err != nil {
		t.Fatalf("UpsertTextStage() for s2 error = %v", err)
	}
	if other.ID == first.ID {
		t.Error("distinct students share a submission row")
	}
}

func TestSubmissionStore_InvalidStage(t *testing.T) {
	store := NewSubmissionStore(openTestDB(t))

	_, err := store.UpsertTextStage(context.Background(), "s1", "q1", domain.StageFlowchart, domain.TextStage{})
	if !errors.Is(err, domain.ErrInvalidStage) {
		t.Errorf("error = %v, want ErrInvalidStage", err)
	}
}
