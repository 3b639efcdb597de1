package tools

import (
	"fmt"
	"math"
	"strings"
)

// ValidateArgs checks a call's arguments against the spec's declared
// parameters: required arguments must be present and declared types must
// match. Arguments not declared in the spec are passed through untouched;
// remote schemas routinely allow additional properties and the remote side
// is the authority on those.
func ValidateArgs(spec ToolSpec, args map[string]any) error {
	var problems []string

	for _, p := range spec.Parameters {
		value, present := args[p.Name]
		if !present {
			if p.Required {
				problems = append(problems, fmt.Sprintf("missing required argument %q", p.Name))
			}
			continue
		}
		if !typeMatches(p.Type, value) {
			problems = append(problems, fmt.Sprintf("argument %q: expected %s, got %T", p.Name, p.Type, value))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid arguments for %s: %s", spec.Name, strings.Join(problems, "; "))
	}
	return nil
}

func typeMatches(declared string, value any) bool {
	if value == nil {
		return true
	}
	switch declared {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "number":
		return isNumeric(value)
	case "integer":
		// JSON decodes all numbers to float64; accept whole values.
		switch v := value.(type) {
		case float64:
			return v == math.Trunc(v)
		case float32:
			return float64(v) == math.Trunc(float64(v))
		case int, int32, int64:
			return true
		default:
			return false
		}
	case "array":
		_, ok := value.([]any)
		if ok {
			return true
		}
		_, ok = value.([]string)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		// Unknown declared type: do not reject, the backend decides.
		return true
	}
}

func isNumeric(value any) bool {
	switch value.(type) {
	case float64, float32, int, int32, int64:
		return true
	default:
		return false
	}
}
