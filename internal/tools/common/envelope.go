package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Envelope is the JSON payload returned by tool handlers.
type Envelope = map[string]interface{}

// JSONResult marshals payload as indented JSON and wraps it in a text
// tool result. Tool output is consumed by language models, so readable
// formatting matters more than compactness.
func JSONResult(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ErrorResult returns an error envelope with the given message. The result
// is marked as an error so instrumentation records the failed invocation.
func ErrorResult(message string) (*mcp.CallToolResult, error) {
	return errorEnvelope(Envelope{
		"status":  "error",
		"message": message,
	})
}

// ErrorResultWithDetails returns an error envelope carrying additional
// detail, typically the raw API response.
func ErrorResultWithDetails(message string, details interface{}) (*mcp.CallToolResult, error) {
	return errorEnvelope(Envelope{
		"status":  "error",
		"message": message,
		"details": details,
	})
}

func errorEnvelope(payload Envelope) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultError(string(data)), nil
}

// Errorf returns an error envelope with a formatted message.
func Errorf(format string, args ...interface{}) (*mcp.CallToolResult, error) {
	return ErrorResult(fmt.Sprintf(format, args...))
}
