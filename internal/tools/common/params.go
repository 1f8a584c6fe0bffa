package common

import (
	"fmt"
	"strings"
)

// RequireArgs checks that every named argument is present and non-empty.
// Nil values, blank strings, and empty collections all count as missing.
func RequireArgs(args map[string]interface{}, names ...string) error {
	var missing []string

	for _, name := range names {
		value, ok := args[name]
		if !ok || isEmptyValue(value) {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required parameters: %s", strings.Join(missing, ", "))
	}
	return nil
}

func isEmptyValue(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	default:
		return false
	}
}

// StringArg extracts a required string argument, returning an error when it
// is absent, blank, or of the wrong type.
func StringArg(args map[string]interface{}, name string) (string, error) {
	value, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%s is required", name)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	if strings.TrimSpace(str) == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return str, nil
}

// OptionalStringArg extracts an optional string argument, returning the
// empty string when absent or not a string.
func OptionalStringArg(args map[string]interface{}, name string) string {
	if value, ok := args[name].(string); ok {
		return value
	}
	return ""
}

// OptionalBoolArg extracts an optional boolean argument, returning the
// provided default when absent or not a boolean.
func OptionalBoolArg(args map[string]interface{}, name string, defaultValue bool) bool {
	if value, ok := args[name].(bool); ok {
		return value
	}
	return defaultValue
}

// ParseStringOrArray parses a parameter that can be either a single string
// or an array of strings. A single string containing commas is split into
// its parts.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if strings.TrimSpace(str) == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}
