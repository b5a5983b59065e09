package flowspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSynonyms returns the built-in synonym table mapping canonical labels
// to their surface-form aliases. Lookups are case-insensitive; the table is
// consulted only during normalization, never during comparison.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"start":    {"開始", "起點", "begin"},
		"end":      {"結束", "終點", "finish", "stop"},
		"input":    {"輸入", "read", "讀取"},
		"output":   {"輸出", "print", "顯示", "列印"},
		"process":  {"處理", "計算"},
		"decision": {"判斷", "條件", "決策"},
		"umbrella": {"帶傘", "拿雨傘", "雨傘", "take umbrella"},
		"raining":  {"下雨", "會下雨嗎", "是否下雨"},
	}
}

// LoadSynonyms reads a synonym table from a YAML file of the form
//
//	umbrella:
//	  - 帶傘
//	  - 拿雨傘
//
// and merges it over the built-in defaults. File entries win on key collision.
func LoadSynonyms(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms file: %w", err)
	}

	var loaded map[string][]string
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse synonyms file: %w", err)
	}

	merged := DefaultSynonyms()
	for canonical, aliases := range loaded {
		merged[canonical] = aliases
	}
	return merged, nil
}
