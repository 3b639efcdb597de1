package githubmcp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// schemaToMap converts whatever schema representation the SDK hands us into
// a plain map. A nil schema becomes an empty object schema.
func schemaToMap(schema any) (map[string]any, error) {
	if schema == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}, nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal input schema: %w", err)
	}
	if out == nil {
		out = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return out, nil
}

// cleanSchema strips keys some LLM providers reject (Gemini in particular),
// recursing through nested objects and arrays.
func cleanSchema(schema map[string]any) map[string]any {
	unsupported := map[string]bool{
		"$schema":              true,
		"additionalProperties": true,
	}

	cleaned := make(map[string]any, len(schema))
	for key, value := range schema {
		if unsupported[key] {
			continue
		}
		cleaned[key] = cleanValue(value)
	}
	return cleaned
}

func cleanValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cleanSchema(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cleanValue(item)
		}
		return out
	default:
		return value
	}
}

// readOnlyPrefixes cover the GitHub MCP server's query tools. Everything
// else mutates remote state and must pass the confirmation gate.
var readOnlyPrefixes = []string{"get_", "list_", "search_", "read_"}

func isMutating(toolName string) bool {
	lowered := strings.ToLower(toolName)
	for _, prefix := range readOnlyPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return false
		}
	}
	return true
}
