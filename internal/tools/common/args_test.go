package common

import "testing"

func TestGetProjectKeyFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{
			name:     "no project key returns empty",
			args:     map[string]interface{}{},
			expected: "",
		},
		{
			name: "project key specified",
			args: map[string]interface{}{
				"project_key": "tenant-123",
			},
			expected: "tenant-123",
		},
		{
			name: "project key with other params",
			args: map[string]interface{}{
				"project_key": "tenant-456",
				"other":       "value",
			},
			expected: "tenant-456",
		},
		{
			name:     "nil args returns empty",
			args:     nil,
			expected: "",
		},
		{
			name: "non-string project key returns empty",
			args: map[string]interface{}{
				"project_key": 123,
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetProjectKeyFromArgs(tt.args)
			if result != tt.expected {
				t.Errorf("GetProjectKeyFromArgs() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestStringArgDefault(t *testing.T) {
	args := map[string]interface{}{
		"template": "web",
		"empty":    "",
		"number":   42,
	}

	if v := StringArgDefault(args, "template", "fallback"); v != "web" {
		t.Errorf("StringArgDefault() = %q, want %q", v, "web")
	}
	if v := StringArgDefault(args, "empty", "fallback"); v != "fallback" {
		t.Errorf("StringArgDefault() empty = %q, want %q", v, "fallback")
	}
	if v := StringArgDefault(args, "number", "fallback"); v != "fallback" {
		t.Errorf("StringArgDefault() non-string = %q, want %q", v, "fallback")
	}
	if v := StringArgDefault(args, "missing", "fallback"); v != "fallback" {
		t.Errorf("StringArgDefault() missing = %q, want %q", v, "fallback")
	}
}

func TestBoolArg(t *testing.T) {
	args := map[string]interface{}{
		"is_enable": true,
		"string":    "true",
	}

	if !BoolArg(args, "is_enable", false) {
		t.Error("BoolArg() should return true for boolean true")
	}
	if !BoolArg(args, "missing", true) {
		t.Error("BoolArg() should return default for missing key")
	}
	if BoolArg(args, "string", false) {
		t.Error("BoolArg() should return default for non-boolean value")
	}
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{
		"page_size": float64(25), // JSON numbers decode as float64
		"raw":       10,
		"string":    "10",
	}

	if v := IntArg(args, "page_size", 100); v != 25 {
		t.Errorf("IntArg() float64 = %d, want 25", v)
	}
	if v := IntArg(args, "raw", 100); v != 10 {
		t.Errorf("IntArg() int = %d, want 10", v)
	}
	if v := IntArg(args, "string", 100); v != 100 {
		t.Errorf("IntArg() non-number = %d, want default 100", v)
	}
	if v := IntArg(args, "missing", 100); v != 100 {
		t.Errorf("IntArg() missing = %d, want default 100", v)
	}
}
