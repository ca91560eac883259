package auth_tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/seliseblocks/blocks-mcp/internal/instrumentation"
	"github.com/seliseblocks/blocks-mcp/internal/logging"
	"github.com/seliseblocks/blocks-mcp/internal/server"
	"github.com/seliseblocks/blocks-mcp/internal/session"
	"github.com/seliseblocks/blocks-mcp/internal/tools/common"
)

// RegisterAuthTools registers all authentication and session tools with the MCP server
func RegisterAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerLoginTool(s, sc); err != nil {
		return fmt.Errorf("failed to register login tool: %w", err)
	}
	if err := registerLogoutTool(s, sc); err != nil {
		return fmt.Errorf("failed to register logout tool: %w", err)
	}
	if err := registerAuthStatusTool(s, sc); err != nil {
		return fmt.Errorf("failed to register auth status tool: %w", err)
	}
	if err := registerGlobalStateTool(s, sc); err != nil {
		return fmt.Errorf("failed to register global state tool: %w", err)
	}
	if err := registerSetApplicationDomainTool(s, sc); err != nil {
		return fmt.Errorf("failed to register set application domain tool: %w", err)
	}
	return nil
}

// globalState is the session snapshot as exposed by get_global_state and
// returned alongside any tool that mutates the session.
func globalState(snapshot session.Snapshot) common.Envelope {
	return common.Envelope{
		"authenticated":      snapshot.Authenticated(),
		"username":           snapshot.Username,
		"project_key":        snapshot.TenantID,
		"tenant_group_id":    snapshot.TenantGroupID,
		"application_domain": snapshot.ApplicationDomain,
		"project_name":       snapshot.ProjectName,
	}
}

// GlobalState exposes the session snapshot envelope to the other tool
// packages so their responses stay consistent with get_global_state.
func GlobalState(snapshot session.Snapshot) common.Envelope {
	return globalState(snapshot)
}

func registerLoginTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("login",
		mcp.WithDescription("Authenticate against the SELISE Blocks cloud with username and password. "+
			"Stores the access token in the session; all other tools require a prior login."),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("SELISE Blocks account username (email address)"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("SELISE Blocks account password"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		username := common.StringArg(args, "username")
		if username == "" {
			return common.ErrorResult("username is required")
		}
		password := common.StringArg(args, "password")
		if password == "" {
			return common.ErrorResult("password is required")
		}

		token, err := sc.Blocks().Login(ctx, username, password)
		if err != nil {
			if metrics := sc.Metrics(); metrics != nil {
				metrics.RecordAuthAttempt(ctx, instrumentation.AuthResultFailure)
			}
			slog.Warn("login failed", logging.UserHash(username), logging.Domain(username), logging.Err(err))
			return common.ErrorResult(fmt.Sprintf("login failed: %v", err))
		}

		update := session.NewUpdate().Token(token).Username(username)
		if claims, err := session.ParseClaims(token.AccessToken); err == nil && claims.TenantID != "" {
			update.TenantID(claims.TenantID)
		}
		sc.Session().Apply(update)

		if metrics := sc.Metrics(); metrics != nil {
			metrics.RecordAuthAttempt(ctx, instrumentation.AuthResultSuccess)
		}
		slog.Debug("login succeeded",
			logging.UserHash(username),
			slog.String("token", logging.SanitizeToken(token.AccessToken)),
			slog.Time("expires_at", token.Expiry))

		return common.JSONResult(common.Envelope{
			"status":  "success",
			"message": fmt.Sprintf("Login successful for %s", username),
			"token_info": common.Envelope{
				"token_type":        token.TokenType,
				"expires_in":        int(time.Until(token.Expiry).Seconds()),
				"expires_at":        token.Expiry.UTC().Format(time.RFC3339),
				"has_refresh_token": token.RefreshToken != "",
			},
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("login",
		instrumentation.ServiceAuth, instrumentation.OperationLogin, sc, handler))
	return nil
}

func registerLogoutTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("logout",
		mcp.WithDescription("Clear the current session: access token, tenant context and application domain. "+
			"After logout every tool requires a fresh login."),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sc.Session().Reset()

		return common.JSONResult(common.Envelope{
			"status":  "success",
			"message": "Logged out. Session state cleared.",
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandler("logout", sc, handler))
	return nil
}

func registerAuthStatusTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("get_auth_status",
		mcp.WithDescription("Report whether the session holds a valid access token and when it expires."),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snapshot := sc.Session().Get()

		if !snapshot.Authenticated() {
			return common.JSONResult(common.Envelope{
				"status":        "success",
				"authenticated": false,
				"message":       "Not authenticated. Use the login tool first.",
			})
		}

		now := time.Now()
		expired := !snapshot.ExpiresAt.After(now)
		payload := common.Envelope{
			"status":            "success",
			"authenticated":     true,
			"username":          snapshot.Username,
			"token_type":        snapshot.TokenType,
			"expires_at":        snapshot.ExpiresAt.UTC().Format(time.RFC3339),
			"expired":           expired,
			"has_refresh_token": snapshot.RefreshToken != "",
		}
		if !expired {
			payload["expires_in"] = int(snapshot.ExpiresAt.Sub(now).Seconds())
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandler("get_auth_status", sc, handler))
	return nil
}

func registerGlobalStateTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("get_global_state",
		mcp.WithDescription("Return the session context: authentication state, active project key, "+
			"tenant group, application domain and project name."),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snapshot := sc.Session().Get()

		return common.JSONResult(common.Envelope{
			"status":       "success",
			"global_state": globalState(snapshot),
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandler("get_global_state", sc, handler))
	return nil
}

func registerSetApplicationDomainTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("set_application_domain",
		mcp.WithDescription("Override the project context stored in the session: application domain and "+
			"its tenant, plus optional project name and tenant group. Used when the platform has "+
			"provisioned the real domain for a project created earlier."),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Application domain including scheme, e.g. https://myapp.seliseblocks.com"),
		),
		mcp.WithString("tenant_id",
			mcp.Required(),
			mcp.Description("Tenant ID (project key) the domain belongs to"),
		),
		mcp.WithString("project_name",
			mcp.Description("Project name to store alongside the domain"),
		),
		mcp.WithString("tenant_group_id",
			mcp.Description("Tenant group ID to store alongside the domain"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		domain := common.StringArg(args, "domain")
		if domain == "" {
			return common.ErrorResult("domain is required")
		}
		tenantID := common.StringArg(args, "tenant_id")
		if tenantID == "" {
			return common.ErrorResult("tenant_id is required")
		}

		// Domain and tenant travel in one update so the session never holds
		// one without the other.
		update := session.NewUpdate().ApplicationDomain(domain).TenantID(tenantID)
		if name := common.StringArg(args, "project_name"); name != "" {
			update.ProjectName(name)
		}
		if groupID := common.StringArg(args, "tenant_group_id"); groupID != "" {
			update.TenantGroupID(groupID)
		}
		sc.Session().Apply(update)

		return common.JSONResult(common.Envelope{
			"status":       "success",
			"message":      fmt.Sprintf("Application domain set to %s for tenant %s", domain, tenantID),
			"global_state": globalState(sc.Session().Get()),
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandler("set_application_domain", sc, handler))
	return nil
}
