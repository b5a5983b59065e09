package flowspec

import (
	"testing"

	"github.com/flowtutor/flowtutor/internal/domain"
)

func TestEditorGraph_Empty(t *testing.T) {
	var nilGraph *EditorGraph
	if !nilGraph.Empty() {
		t.Error("nil graph should be empty")
	}
	if !(&EditorGraph{}).Empty() {
		t.Error("zero graph should be empty")
	}
	if (&EditorGraph{Nodes: []EditorNode{{ID: "n1"}}}).Empty() {
		t.Error("graph with a node should not be empty")
	}
}

func TestSemanticType(t *testing.T) {
	tests := []struct {
		name string
		node EditorNode
		want string
	}{
		{"rectangle is process", EditorNode{Type: "rectangle", Label: "算平均"}, domain.NodeProcess},
		{"diamond is decision", EditorNode{Type: "diamond", Label: "下雨嗎"}, domain.NodeDecision},
		{"process shape is input", EditorNode{Type: "process", Label: "輸入成績"}, domain.NodeInput},
		{"ellipse with end label", EditorNode{Type: "decision", Label: "結束"}, domain.NodeEnd},
		{"ellipse with english end", EditorNode{Type: "decision", Label: "The End"}, domain.NodeEnd},
		{"ellipse with terminal label", EditorNode{Type: "decision", Label: "終點"}, domain.NodeEnd},
		{"ellipse without end hint is start", EditorNode{Type: "decision", Label: "開始"}, domain.NodeStart},
		{"shape casing ignored", EditorNode{Type: " Diamond ", Label: "x"}, domain.NodeDecision},
		{"unknown shape passes through", EditorNode{Type: "cloud", Label: "x"}, "cloud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := semanticType(tt.node); got != tt.want {
				t.Errorf("semanticType(%+v) = %q, want %q", tt.node, got, tt.want)
			}
		})
	}
}

func TestMapEditorGraph(t *testing.T) {
	graph := EditorGraph{
		Nodes: []EditorNode{
			{ID: "a", Type: "decision", Label: "開始"},
			{ID: "b", Type: "diamond", Label: "下雨嗎"},
			{ID: "c", Type: "rectangle", Label: "帶傘"},
			{ID: "d", Type: "decision", Label: "結束"},
		},
		Edges: []EditorEdge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "c", Label: "是"},
			// Legacy from/to endpoints still accepted.
			{ID: "e3", From: "c", To: "d"},
			// source/target win when both styles are present.
			{ID: "e4", Source: "b", Target: "d", From: "x", To: "y", Label: "否"},
		},
	}

	spec := MapEditorGraph(graph, nil)

	wantTypes := []string{domain.NodeStart, domain.NodeDecision, domain.NodeProcess, domain.NodeEnd}
	for i, want := range wantTypes {
		if spec.Nodes[i].Type != want {
			t.Errorf("node %d type = %q, want %q", i, spec.Nodes[i].Type, want)
		}
	}

	if spec.Nodes[2].Label != "umbrella" {
		t.Errorf("node label = %q, want umbrella (normalized)", spec.Nodes[2].Label)
	}

	if spec.Edges[0].From != "a" || spec.Edges[0].To != "b" {
		t.Errorf("edge e1 endpoints = %q->%q, want a->b", spec.Edges[0].From, spec.Edges[0].To)
	}
	if spec.Edges[2].From != "c" || spec.Edges[2].To != "d" {
		t.Errorf("edge e3 endpoints = %q->%q, want c->d", spec.Edges[2].From, spec.Edges[2].To)
	}
	if spec.Edges[3].From != "b" || spec.Edges[3].To != "d" {
		t.Errorf("edge e4 endpoints = %q->%q, want b->d", spec.Edges[3].From, spec.Edges[3].To)
	}
	if spec.Edges[1].Label != "yes" || spec.Edges[3].Label != "no" {
		t.Errorf("branch labels = %q/%q, want yes/no", spec.Edges[1].Label, spec.Edges[3].Label)
	}

	if spec.ScoringWeights == nil {
		t.Error("mapped spec should be fully normalized with weights")
	}
}
