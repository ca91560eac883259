package common

// GetProjectKeyFromArgs extracts the project key from request arguments.
// Returns an empty string when no project_key argument was provided; the
// session's stored tenant ID is used in that case.
func GetProjectKeyFromArgs(args map[string]interface{}) string {
	if v, ok := args["project_key"].(string); ok {
		return v
	}
	return ""
}

// StringArg returns the string value for key, or an empty string when the
// argument is missing or not a string.
func StringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// StringArgDefault returns the string value for key, or defaultValue when
// the argument is missing, empty, or not a string.
func StringArgDefault(args map[string]interface{}, key, defaultValue string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

// BoolArg returns the boolean value for key, or defaultValue when the
// argument is missing or not a boolean.
func BoolArg(args map[string]interface{}, key string, defaultValue bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return defaultValue
}

// IntArg returns the integer value for key, or defaultValue when the
// argument is missing or not a number. JSON numbers arrive as float64.
func IntArg(args map[string]interface{}, key string, defaultValue int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return defaultValue
	}
}
