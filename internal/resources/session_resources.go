package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/seliseblocks/blocks-mcp/internal/server"
	"github.com/seliseblocks/blocks-mcp/internal/session"
)

// RegisterSessionResources registers resources exposing the session state.
// They mirror the get_auth_status and get_global_state tools for MCP clients
// that prefer resources over tool calls.
func RegisterSessionResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	authResource := mcp.NewResource(
		"selise://session/auth",
		"Authentication Status",
		mcp.WithResourceDescription("Whether the session holds a valid SELISE Blocks access token and when it expires"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(authResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAuthResource(request, sc.Session().Get())
	})

	contextResource := mcp.NewResource(
		"selise://session/context",
		"Project Context",
		mcp.WithResourceDescription("The active project key, tenant group, application domain and project name"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(contextResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleContextResource(request, sc.Session().Get())
	})

	return nil
}

func jsonResource(uri string, payload map[string]interface{}) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func handleAuthResource(request mcp.ReadResourceRequest, snapshot session.Snapshot) ([]mcp.ResourceContents, error) {
	payload := map[string]interface{}{
		"authenticated": snapshot.Authenticated(),
	}
	if snapshot.Authenticated() {
		payload["username"] = snapshot.Username
		payload["token_type"] = snapshot.TokenType
		payload["expires_at"] = snapshot.ExpiresAt.UTC().Format(time.RFC3339)
		payload["expired"] = !snapshot.ExpiresAt.After(time.Now())
		payload["has_refresh_token"] = snapshot.RefreshToken != ""
	}
	return jsonResource(request.Params.URI, payload)
}

func handleContextResource(request mcp.ReadResourceRequest, snapshot session.Snapshot) ([]mcp.ResourceContents, error) {
	return jsonResource(request.Params.URI, map[string]interface{}{
		"authenticated":      snapshot.Authenticated(),
		"username":           snapshot.Username,
		"project_key":        snapshot.TenantID,
		"tenant_group_id":    snapshot.TenantGroupID,
		"application_domain": snapshot.ApplicationDomain,
		"project_name":       snapshot.ProjectName,
	})
}
