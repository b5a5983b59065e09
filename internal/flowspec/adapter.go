package flowspec

import (
	"strings"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// EditorNode is a node as drawn in the diagram editor. The editor speaks in
// shape vocabulary, not flowchart semantics: its "process" shape is a
// parallelogram (semantic input) and its "decision" shape is an ellipse used
// for both start and end.
type EditorNode struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Required bool   `json:"required,omitempty"`
}

// EditorEdge is an edge as drawn in the editor. Endpoints come from
// source/target when present, from/to otherwise.
type EditorEdge struct {
	ID     string `json:"id"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Label  string `json:"label,omitempty"`
}

// EditorGraph is the raw node/edge graph submitted by the diagram editor.
type EditorGraph struct {
	Nodes []EditorNode `json:"nodes"`
	Edges []EditorEdge `json:"edges"`
}

// Empty reports whether the graph carries no drawn content.
func (g *EditorGraph) Empty() bool {
	return g == nil || (len(g.Nodes) == 0 && len(g.Edges) == 0)
}

// shapeTypes remaps the editor's shape vocabulary onto semantic flowchart
// types. The ellipse ("decision" shape) is handled separately.
var shapeTypes = map[string]string{
	"rectangle": domain.NodeProcess,
	"diamond":   domain.NodeDecision,
	"process":   domain.NodeInput, // parallelogram shape
}

// Substrings that mark an ellipse node as the terminal node. One shape serves
// two semantic roles in the editor, so this is a heuristic: an ellipse whose
// label names none of these is taken to be the start node.
var endLabelHints = []string{"結束", "end", "終點"}

// MapEditorGraph converts an editor graph into a fully normalized FlowSpec.
func MapEditorGraph(graph EditorGraph, synonyms map[string][]string) domain.FlowSpec {
	spec := domain.FlowSpec{
		Nodes: make([]domain.Node, 0, len(graph.Nodes)),
		Edges: make([]domain.Edge, 0, len(graph.Edges)),
	}

	for _, n := range graph.Nodes {
		spec.Nodes = append(spec.Nodes, domain.Node{
			ID:       n.ID,
			Type:     semanticType(n),
			Label:    n.Label,
			Required: n.Required,
		})
	}

	for _, e := range graph.Edges {
		from, to := e.From, e.To
		if e.Source != "" {
			from = e.Source
		}
		if e.Target != "" {
			to = e.Target
		}
		spec.Edges = append(spec.Edges, domain.Edge{
			ID:    e.ID,
			From:  from,
			To:    to,
			Label: e.Label,
		})
	}

	return Normalize(spec, synonyms)
}

func semanticType(n EditorNode) string {
	shape := strings.ToLower(strings.TrimSpace(n.Type))

	if shape == "decision" {
		// Ellipse shape: start or end, disambiguated by label.
		label := strings.ToLower(n.Label)
		for _, hint := range endLabelHints {
			if strings.Contains(label, hint) {
				return domain.NodeEnd
			}
		}
		return domain.NodeStart
	}

	if semantic, ok := shapeTypes[shape]; ok {
		return semantic
	}
	return shape
}
