package jsondoc

import (
	"encoding/json"
	"strings"
)

// IsJSON checks if a string value parses as a JSON document
func IsJSON(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return json.Valid([]byte(value))
}

// LooksLikeJSON is a cheap check used before handing text to the tree:
// it only inspects the first non-space character
func LooksLikeJSON(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	switch value[0] {
	case '{', '[', '"', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	}
	return strings.HasPrefix(value, "null") || strings.HasPrefix(value, "true") || strings.HasPrefix(value, "false")
}

// Type returns the type of a JSON document (object, array, string, number, boolean, null)
func Type(value string) string {
	var parsed interface{}
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		return "unknown"
	}

	switch parsed.(type) {
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
