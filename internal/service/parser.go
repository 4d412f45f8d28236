package service

import (
	"encoding/json"
	"fmt"
)

// ParseSuggestions extracts the suggestion list from an autocomplete payload.
// The payload is a JSON array whose second element is an array of strings:
//
//	["drone", ["drone reviews", "drone racing"], ...]
func ParseSuggestions(body []byte) ([]string, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("failed to parse suggestions: expected at least 2 elements, got %d", len(parts))
	}

	var suggestions []string
	if err := json.Unmarshal(parts[1], &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion list: %w", err)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions, nil
}
