package flowspec

import (
	"fmt"
	"strings"

	"github.com/flowtutor/flowtutor/internal/domain"
)

// Boolean-like tokens mapped ahead of the synonym table. A decision branch
// labeled 是/Y/true must compare equal to one labeled "yes".
var (
	yesTokens = map[string]bool{"yes": true, "y": true, "是": true, "true": true}
	noTokens  = map[string]bool{"no": true, "n": true, "否": true, "false": true}
)

// NormalizeLabel canonicalizes a free-text node or edge label: trim and
// lowercase, map yes/no tokens, then scan the synonym table. Unknown labels
// pass through unchanged. Pure function of its two inputs.
func NormalizeLabel(label string, synonyms map[string][]string) string {
	s := strings.ToLower(strings.TrimSpace(label))

	if yesTokens[s] {
		return "yes"
	}
	if noTokens[s] {
		return "no"
	}

	for canonical, aliases := range synonyms {
		if s == strings.ToLower(canonical) {
			return canonical
		}
		for _, alias := range aliases {
			if s == strings.ToLower(alias) {
				return canonical
			}
		}
	}

	return s
}

// Normalize coerces an arbitrary spec into canonical shape: every node and
// edge gets an id (defaulted positionally), types and labels are run through
// NormalizeLabel, and missing weight/synonym/rubric tables are filled in.
// The input is never mutated. Normalize is idempotent.
func Normalize(raw domain.FlowSpec, synonyms map[string][]string) domain.FlowSpec {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	table := synonyms
	if raw.Synonyms != nil {
		table = raw.Synonyms
	}

	out := domain.FlowSpec{
		Nodes: make([]domain.Node, 0, len(raw.Nodes)),
		Edges: make([]domain.Edge, 0, len(raw.Edges)),
	}

	for i, n := range raw.Nodes {
		id := n.ID
		if id == "" {
			id = fmt.Sprintf("n%d", i+1)
		}
		out.Nodes = append(out.Nodes, domain.Node{
			ID:       id,
			Type:     NormalizeLabel(n.Type, table),
			Label:    NormalizeLabel(n.Label, table),
			Required: n.Required,
		})
	}

	for i, e := range raw.Edges {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i+1)
		}
		label := ""
		if e.Label != "" {
			label = NormalizeLabel(e.Label, table)
		}
		// from/to are identifiers, not labels; copied verbatim.
		out.Edges = append(out.Edges, domain.Edge{
			ID:       id,
			From:     e.From,
			To:       e.To,
			Label:    label,
			Required: e.Required,
		})
	}

	out.ScoringWeights = copyWeights(raw.ScoringWeights)
	if out.ScoringWeights == nil {
		out.ScoringWeights = domain.DefaultScoringWeights()
	}

	out.Synonyms = copySynonyms(table)

	out.Rubrics = make(map[string]string, len(raw.Rubrics))
	for k, v := range raw.Rubrics {
		out.Rubrics[k] = v
	}

	return out
}

func copyWeights(w map[string]float64) map[string]float64 {
	if w == nil {
		return nil
	}
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func copySynonyms(s map[string][]string) map[string][]string {
	out := make(map[string][]string, len(s))
	for k, v := range s {
		out[k] = append([]string(nil), v...)
	}
	return out
}
