package flowspec

import (
	"fmt"
	"math"
	"strings"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// Penalty scores applied when a check fails. Both are deliberately binary
// rather than graduated: a chart missing its start node scores the same as
// one missing both terminals. Kept as named constants so the policy is
// auditable without touching the comparison control flow.
const (
	StructurePenaltyScore = 0.5
	LogicPenaltyScore     = 0.6
)

// Structure and logic issue messages.
const (
	msgMissingStart = "流程圖缺少開始節點"
	msgMissingEnd   = "流程圖缺少結束節點"
)

// Compare grades a normalized student spec against a normalized ideal spec.
// Matching is by (type, label) identity, never by id or graph topology; two
// differently-shaped charts whose identity tuples align score identically.
// Pure and deterministic; it has no error paths. Malformed input yields low
// coverage, not a failure.
func Compare(ideal, student domain.FlowSpec) (domain.Diff, domain.Scores) {
	weights := effectiveWeights(ideal.ScoringWeights)

	diff := domain.Diff{
		StructureIssues: []string{},
		MissingNodes:    []domain.NodeRef{},
		MissingEdges:    []domain.EdgeRef{},
		LogicIssues:     []string{},
	}

	// Structure: the student chart needs at least one start and one end node.
	hasStart, hasEnd := false, false
	for _, n := range student.Nodes {
		switch n.Type {
		case domain.NodeStart:
			hasStart = true
		case domain.NodeEnd:
			hasEnd = true
		}
	}
	if !hasStart {
		diff.StructureIssues = append(diff.StructureIssues, msgMissingStart)
	}
	if !hasEnd {
		diff.StructureIssues = append(diff.StructureIssues, msgMissingEnd)
	}
	structureScore := 1.0
	if len(diff.StructureIssues) > 0 {
		structureScore = StructurePenaltyScore
	}

	// Node coverage over required ideal nodes.
	studentNodes := make(map[domain.NodeRef]bool, len(student.Nodes))
	for _, n := range student.Nodes {
		studentNodes[domain.NodeRef{Type: n.Type, Label: n.Label}] = true
	}
	requiredNodes := 0
	for _, n := range ideal.Nodes {
		if !n.Required {
			continue
		}
		requiredNodes++
		ref := domain.NodeRef{Type: n.Type, Label: n.Label}
		if !studentNodes[ref] {
			diff.MissingNodes = append(diff.MissingNodes, ref)
		}
	}
	nodesCoverage := coverage(requiredNodes, len(diff.MissingNodes))

	// Edge coverage over required ideal edges, matched by endpoint identity.
	idealByID := nodesByID(ideal.Nodes)
	studentByID := nodesByID(student.Nodes)
	requiredEdges := 0
	for _, e := range ideal.Edges {
		if !e.Required {
			continue
		}
		requiredEdges++
		ref := domain.EdgeRef{
			From:  idealByID[e.From],
			To:    idealByID[e.To],
			Label: e.Label,
		}
		if !studentHasEdge(student, studentByID, ref) {
			diff.MissingEdges = append(diff.MissingEdges, ref)
		}
	}
	edgesCoverage := coverage(requiredEdges, len(diff.MissingEdges))

	// Logic: every student decision node needs both a yes and a no branch.
	outgoing := make(map[string][]string)
	for _, e := range student.Edges {
		outgoing[e.From] = append(outgoing[e.From], strings.ToLower(e.Label))
	}
	for _, n := range student.Nodes {
		if n.Type != domain.NodeDecision {
			continue
		}
		hasYes, hasNo := false, false
		for _, label := range outgoing[n.ID] {
			switch label {
			case "yes":
				hasYes = true
			case "no":
				hasNo = true
			}
		}
		if !hasYes || !hasNo {
			name := n.Label
			if name == "" {
				name = n.ID
			}
			diff.LogicIssues = append(diff.LogicIssues,
				fmt.Sprintf("判斷節點「%s」缺少 yes/no 分支", name))
		}
	}
	logicScore := 1.0
	if len(diff.LogicIssues) > 0 {
		logicScore = LogicPenaltyScore
	}

	total := structureScore*weights[domain.DimStructure] +
		nodesCoverage*weights[domain.DimNodes] +
		edgesCoverage*weights[domain.DimEdges] +
		logicScore*weights[domain.DimLogic]

	scores := domain.Scores{
		Structure: round2(structureScore),
		Nodes:     round2(nodesCoverage),
		Edges:     round2(edgesCoverage),
		Logic:     round2(logicScore),
		Total:     round2(total),
	}

	return diff, scores
}

// effectiveWeights overlays the ideal spec's weights onto the defaults,
// per key.
func effectiveWeights(overrides map[string]float64) map[string]float64 {
	weights := domain.DefaultScoringWeights()
	for k, v := range overrides {
		weights[k] = v
	}
	return weights
}

func nodesByID(nodes []domain.Node) map[string]domain.NodeRef {
	byID := make(map[string]domain.NodeRef, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = domain.NodeRef{Type: n.Type, Label: n.Label}
	}
	return byID
}

func studentHasEdge(student domain.FlowSpec, byID map[string]domain.NodeRef, want domain.EdgeRef) bool {
	for _, e := range student.Edges {
		from, ok := byID[e.From]
		if !ok {
			continue // dangling reference, tolerated but never a match
		}
		to, ok := byID[e.To]
		if !ok {
			continue
		}
		if from != want.From || to != want.To {
			continue
		}
		// The label check is skipped when the ideal edge carries none.
		if want.Label != "" && e.Label != want.Label {
			continue
		}
		return true
	}
	return false
}

// coverage is the matched fraction of required elements, vacuously 1 when
// nothing is required.
func coverage(required, missing int) float64 {
	if required == 0 {
		return 1
	}
	return float64(required-missing) / float64(required)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
