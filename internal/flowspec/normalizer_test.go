package flowspec

import (
	"reflect"
	"testing"

	"github.com/flowtutor/flowtutor/internal/domain"
)

func TestNormalizeLabel(t *testing.T) {
	synonyms := DefaultSynonyms()

	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"trim and lowercase", "  Read Input  ", "read input"},
		{"yes token chinese", "是", "yes"},
		{"yes token single letter", "Y", "yes"},
		{"yes token boolean", "TRUE", "yes"},
		{"no token chinese", "否", "no"},
		{"no token single letter", "n", "no"},
		{"synonym chinese umbrella", "帶傘", "umbrella"},
		{"synonym variant umbrella", "拿雨傘", "umbrella"},
		{"synonym english phrase", "take umbrella", "umbrella"},
		{"synonym start", "開始", "start"},
		{"canonical passes through", "umbrella", "umbrella"},
		{"unknown passes through", "冒泡排序", "冒泡排序"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLabel(tt.label, synonyms); got != tt.want {
				t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestNormalize_DefaultsIDsAndWeights(t *testing.T) {
	raw := domain.FlowSpec{
		Nodes: []domain.Node{
			{Type: "Start", Label: "開始", Required: true},
			{ID: "keep", Type: "process", Label: "帶傘"},
		},
		Edges: []domain.Edge{
			{From: "n1", To: "keep", Label: "是"},
		},
	}

	got := Normalize(raw, nil)

	if got.Nodes[0].ID != "n1" {
		t.Errorf("first node id = %q, want n1", got.Nodes[0].ID)
	}
	if got.Nodes[1].ID != "keep" {
		t.Errorf("explicit node id = %q, want keep", got.Nodes[1].ID)
	}
	if got.Nodes[0].Type != domain.NodeStart {
		t.Errorf("node type = %q, want %q", got.Nodes[0].Type, domain.NodeStart)
	}
	if got.Nodes[0].Label != "start" {
		t.Errorf("node label = %q, want start", got.Nodes[0].Label)
	}
	if got.Nodes[1].Label != "umbrella" {
		t.Errorf("node label = %q, want umbrella", got.Nodes[1].Label)
	}
	if got.Edges[0].ID != "e1" {
		t.Errorf("edge id = %q, want e1", got.Edges[0].ID)
	}
	if got.Edges[0].Label != "yes" {
		t.Errorf("edge label = %q, want yes", got.Edges[0].Label)
	}
	if got.Edges[0].From != "n1" || got.Edges[0].To != "keep" {
		t.Errorf("edge endpoints = %q->%q, want n1->keep", got.Edges[0].From, got.Edges[0].To)
	}

	if !reflect.DeepEqual(got.ScoringWeights, domain.DefaultScoringWeights()) {
		t.Errorf("weights = %v, want defaults", got.ScoringWeights)
	}
	if got.Synonyms == nil {
		t.Error("synonyms not filled in")
	}
	if got.Rubrics == nil {
		t.Error("rubrics not filled in")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := domain.FlowSpec{
		Nodes: []domain.Node{
			{Type: "start", Label: "開始", Required: true},
			{Type: "decision", Label: "下雨嗎", Required: true},
		},
		Edges: []domain.Edge{
			{From: "n1", To: "n2", Label: "Y"},
		},
		ScoringWeights: map[string]float64{"structure": 0.5},
	}

	once := Normalize(raw, nil)
	twice := Normalize(once, nil)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := domain.FlowSpec{
		Nodes: []domain.Node{{Type: "Start", Label: "開始"}},
	}

	Normalize(raw, nil)

	if raw.Nodes[0].Label != "開始" {
		t.Errorf("input mutated: label = %q", raw.Nodes[0].Label)
	}
	if raw.ScoringWeights != nil {
		t.Error("input mutated: weights filled in")
	}
}

func TestNormalize_SpecSynonymsWinOverTable(t *testing.T) {
	raw := domain.FlowSpec{
		Nodes:    []domain.Node{{Type: "process", Label: "特別"}},
		Synonyms: map[string][]string{"special": {"特別"}},
	}

	got := Normalize(raw, DefaultSynonyms())

	if got.Nodes[0].Label != "special" {
		t.Errorf("label = %q, want special (spec table should win)", got.Nodes[0].Label)
	}
}
