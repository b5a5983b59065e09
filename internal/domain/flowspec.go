package domain

// Canonical node types produced by normalization. Free-form types that do not
// normalize to one of these are kept verbatim.
const (
	NodeStart    = "start"
	NodeEnd      = "end"
	NodeInput    = "input"
	NodeProcess  = "process"
	NodeDecision = "decision"
	NodeOutput   = "output"
)

// Scoring dimension names, used as keys of a weight table.
const (
	DimStructure = "structure"
	DimNodes     = "nodes"
	DimEdges     = "edges"
	DimLogic     = "logic"
)

// Node is a single flowchart element.
type Node struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Required bool   `json:"required,omitempty"`
}

// Edge connects two nodes by id. Label is optional; decision branches are
// conventionally labeled "yes" / "no".
type Edge struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// FlowSpec is the canonical in-memory representation of one flowchart.
// Referential integrity between edges and nodes is not enforced; a dangling
// edge simply never matches during comparison.
type FlowSpec struct {
	Nodes          []Node              `json:"nodes"`
	Edges          []Edge              `json:"edges"`
	ScoringWeights map[string]float64  `json:"scoringWeights,omitempty"`
	Synonyms       map[string][]string `json:"synonyms,omitempty"`
	Rubrics        map[string]string   `json:"rubrics,omitempty"`
}

// DefaultScoringWeights returns the weight table used when a spec carries
// none. The values sum to 1.0 by convention.
func DefaultScoringWeights() map[string]float64 {
	return map[string]float64{
		DimStructure: 0.3,
		DimNodes:     0.3,
		DimEdges:     0.2,
		DimLogic:     0.2,
	}
}

// NodeRef identifies a node by its semantic (type, label) identity rather
// than by id. Student ids are arbitrary and never expected to coincide with
// the ideal spec's ids.
type NodeRef struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// EdgeRef identifies an edge by the identities of its endpoints.
type EdgeRef struct {
	From  NodeRef `json:"from"`
	To    NodeRef `json:"to"`
	Label string  `json:"label,omitempty"`
}

// Diff is the structured output of comparing a student spec against an ideal
// spec. Only missing elements and issues are reported; silence implies
// correctness.
type Diff struct {
	StructureIssues []string  `json:"structureIssues"`
	MissingNodes    []NodeRef `json:"missingNodes"`
	MissingEdges    []EdgeRef `json:"missingEdges"`
	LogicIssues     []string  `json:"logicIssues"`
}

// Empty reports whether the diff carries no issues at all.
func (d *Diff) Empty() bool {
	return len(d.StructureIssues) == 0 &&
		len(d.MissingNodes) == 0 &&
		len(d.MissingEdges) == 0 &&
		len(d.LogicIssues) == 0
}

// Scores holds the per-dimension results in [0,1], each rounded to two
// decimals, and the weighted total.
type Scores struct {
	Structure float64 `json:"structure"`
	Nodes     float64 `json:"nodes"`
	Edges     float64 `json:"edges"`
	Logic     float64 `json:"logic"`
	Total     float64 `json:"total"`
}
