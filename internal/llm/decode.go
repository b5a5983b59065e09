package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode marks a model response that does not parse as the expected JSON
// shape. Callers treat "valid JSON" and "not parseable" as distinct outcomes.
var ErrDecode = errors.New("model response is not valid JSON")

// DecodeJSON parses a model response into v, tolerating the Markdown
// code-fence wrapping (```json ... ```) models habitually emit. It is the
// single decode step shared by every consumer of model-generated JSON.
func DecodeJSON(raw string, v any) error {
	text := StripFences(raw)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// StripFences removes leading and trailing Markdown code-fence lines from a
// model response, leaving the payload between them untouched.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	// Drop the opening fence line (```json, ``` etc).
	lines = lines[1:]
	// Drop a trailing fence line if present.
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
