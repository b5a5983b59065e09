package llm

import (
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"missing closing fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"multiline payload", "```json\n{\n  \"a\": 1\n}\n```", "{\n  \"a\": 1\n}"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.raw); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Nodes []struct{ ID string } `json:"nodes"`
	}

	raw := "```json\n{\"nodes\":[{\"id\":\"n1\"}]}\n```"
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(out.Nodes) != 1 || out.Nodes[0].ID != "n1" {
		t.Errorf("decoded = %+v, want one node n1", out)
	}
}

func TestDecodeJSON_InvalidPayload(t *testing.T) {
	var out map[string]any

	err := DecodeJSON("I could not produce a flowchart, sorry.", &out)
	if err == nil {
		t.Fatal("DecodeJSON() expected error for prose response")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}
