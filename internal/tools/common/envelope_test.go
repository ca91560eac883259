package common

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected result with content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatal("expected text content")
	}
	return text.Text
}

func TestJSONResult(t *testing.T) {
	result, err := JSONResult(Envelope{
		"status":  "success",
		"message": "done",
	})
	if err != nil {
		t.Fatalf("JSONResult() error = %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "  \"status\": \"success\"") {
		t.Errorf("expected two-space indented JSON, got %q", text)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if decoded["message"] != "done" {
		t.Errorf("message = %v, want %q", decoded["message"], "done")
	}
}

func TestErrorResult(t *testing.T) {
	result, err := ErrorResult("something failed")
	if err != nil {
		t.Fatalf("ErrorResult() error = %v", err)
	}
	if !result.IsError {
		t.Error("ErrorResult() should mark the result as an error")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &decoded); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if decoded["status"] != "error" {
		t.Errorf("status = %v, want %q", decoded["status"], "error")
	}
	if decoded["message"] != "something failed" {
		t.Errorf("message = %v, want %q", decoded["message"], "something failed")
	}
}

func TestErrorResultWithDetails(t *testing.T) {
	result, err := ErrorResultWithDetails("api call failed", map[string]interface{}{
		"isSuccess": false,
	})
	if err != nil {
		t.Fatalf("ErrorResultWithDetails() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &decoded); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	details, ok := decoded["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("details = %v, want object", decoded["details"])
	}
	if details["isSuccess"] != false {
		t.Errorf("details.isSuccess = %v, want false", details["isSuccess"])
	}
}

func TestErrorf(t *testing.T) {
	result, err := Errorf("failed to create schema: %s", "boom")
	if err != nil {
		t.Fatalf("Errorf() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &decoded); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if decoded["message"] != "failed to create schema: boom" {
		t.Errorf("message = %v", decoded["message"])
	}
}
