package ideal

import (
	"fmt"
	"strings"
)

// The worked example embedded in the generation prompt anchors the output
// format; without it models drift into prose or invent field names.
const exampleSpec = `{
  "nodes": [
    {"id": "n1", "type": "start", "label": "開始", "required": true},
    {"id": "n2", "type": "input", "label": "輸入天氣", "required": true},
    {"id": "n3", "type": "decision", "label": "下雨", "required": true},
    {"id": "n4", "type": "process", "label": "帶傘", "required": true},
    {"id": "n5", "type": "end", "label": "結束", "required": true}
  ],
  "edges": [
    {"id": "e1", "from": "n1", "to": "n2", "required": true},
    {"id": "e2", "from": "n2", "to": "n3", "required": true},
    {"id": "e3", "from": "n3", "to": "n4", "label": "yes", "required": true},
    {"id": "e4", "from": "n3", "to": "n5", "label": "no", "required": true},
    {"id": "e5", "from": "n4", "to": "n5", "required": true}
  ],
  "scoringWeights": {"structure": 0.3, "nodes": 0.3, "edges": 0.2, "logic": 0.2}
}`

const generateSystemPrompt = `You are a programming teacher preparing reference flowcharts for word problems.
Respond with ONLY a JSON object, no explanation and no Markdown fences.`

func buildGeneratePrompt(questionText string) string {
	var sb strings.Builder

	sb.WriteString("Create the reference flowchart for this word problem:\n\n")
	sb.WriteString(questionText)
	sb.WriteString("\n\nEmit ONLY a JSON object with \"nodes\", \"edges\" and \"scoringWeights\".\n")
	sb.WriteString("Node types are start, end, input, process, decision, output.\n")
	sb.WriteString("Label decision branches \"yes\" and \"no\". Mark essential elements with \"required\": true.\n")
	sb.WriteString("Keep node labels in the language of the problem statement.\n\n")
	sb.WriteString(fmt.Sprintf("Example of the expected shape:\n%s\n", exampleSpec))

	return sb.String()
}
