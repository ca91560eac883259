package security_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/seliseblocks/blocks-mcp/internal/blocks"
	"github.com/seliseblocks/blocks-mcp/internal/instrumentation"
	"github.com/seliseblocks/blocks-mcp/internal/server"
	"github.com/seliseblocks/blocks-mcp/internal/session"
	"github.com/seliseblocks/blocks-mcp/internal/tools/common"
)

// RegisterSecurityTools registers the social login, CAPTCHA and MFA tools
// with the MCP server
func RegisterSecurityTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerGetAuthenticationConfigTool(s, sc); err != nil {
		return fmt.Errorf("failed to register get authentication config tool: %w", err)
	}
	if err := registerListCaptchaConfigsTool(s, sc); err != nil {
		return fmt.Errorf("failed to register list captcha configs tool: %w", err)
	}

	if !readOnly {
		if err := registerActivateSocialLoginTool(s, sc); err != nil {
			return fmt.Errorf("failed to register activate social login tool: %w", err)
		}
		if err := registerAddSSOCredentialTool(s, sc); err != nil {
			return fmt.Errorf("failed to register add sso credential tool: %w", err)
		}
		if err := registerSaveCaptchaConfigTool(s, sc); err != nil {
			return fmt.Errorf("failed to register save captcha config tool: %w", err)
		}
		if err := registerUpdateCaptchaStatusTool(s, sc); err != nil {
			return fmt.Errorf("failed to register update captcha status tool: %w", err)
		}
		if err := registerEnableMFATool(s, sc, "enable_email_mfa",
			"Enable email-based multi-factor authentication for a project.",
			[]int{blocks.MFATypeEmail}); err != nil {
			return fmt.Errorf("failed to register enable email mfa tool: %w", err)
		}
		if err := registerEnableMFATool(s, sc, "enable_authenticator_mfa",
			"Enable authenticator-app multi-factor authentication for a project. Email MFA stays "+
				"active as the fallback factor.",
			[]int{blocks.MFATypeEmail, blocks.MFATypeAuthenticator}); err != nil {
			return fmt.Errorf("failed to register enable authenticator mfa tool: %w", err)
		}
	}
	return nil
}

// resolveAuth resolves the tenant and ensures a valid token. A non-nil result
// is the error envelope to return to the caller.
func resolveAuth(ctx context.Context, sc *server.ServerContext, args map[string]interface{}) (session.AuthContext, string, *mcp.CallToolResult) {
	projectKey, err := sc.Session().ResolveTenant(common.GetProjectKeyFromArgs(args))
	if err != nil {
		result, _ := common.ErrorResult(err.Error())
		return session.AuthContext{}, "", result
	}
	auth, err := sc.Session().EnsureValid(ctx)
	if err != nil {
		result, _ := common.ErrorResult(err.Error())
		return session.AuthContext{}, "", result
	}
	return auth, projectKey, nil
}

// truncateSecret shortens identifiers for display so full credentials never
// land in tool output.
func truncateSecret(s string) string {
	if len(s) <= 20 {
		return s
	}
	return s[:20] + "..."
}

// authConfigItemID digs the configuration item ID out of the Get response.
func authConfigItemID(config any) string {
	m, ok := config.(map[string]any)
	if !ok {
		return ""
	}
	if id, ok := m["itemId"].(string); ok {
		return id
	}
	return ""
}

func registerActivateSocialLoginTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("activate_social_login",
		mcp.WithDescription("Enable the social grant type in a project's authentication configuration. "+
			"Run this before adding SSO credentials."),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		config, err := sc.Blocks().GetAuthConfig(ctx, auth, projectKey)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to fetch authentication config: %v", err))
		}
		itemID := authConfigItemID(config)
		if itemID == "" {
			return common.ErrorResultWithDetails(
				"authentication config carried no itemId; cannot update it", config)
		}

		result, err := sc.Blocks().UpdateAuthConfig(ctx, auth, blocks.AuthConfigInput{
			ItemID:     itemID,
			ProjectKey: projectKey,
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to activate social login: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("social login activation failed", result.Errors())
		}

		return common.JSONResult(common.Envelope{
			"status":              "success",
			"message":             fmt.Sprintf("Social login activated for project %s", projectKey),
			"allowed_grant_types": []string{"password", "refresh_token", "social"},
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("activate_social_login",
		instrumentation.ServiceSSO, instrumentation.OperationUpdate, sc, handler))
	return nil
}

func registerGetAuthenticationConfigTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("get_authentication_config",
		mcp.WithDescription("Fetch a project's authentication configuration: token lifetimes, allowed "+
			"grant types and lockout policy."),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		config, err := sc.Blocks().GetAuthConfig(ctx, auth, projectKey)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to fetch authentication config: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status":      "success",
			"project_key": projectKey,
			"config":      config,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("get_authentication_config",
		instrumentation.ServiceSSO, instrumentation.OperationGet, sc, handler))
	return nil
}

func registerAddSSOCredentialTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("add_sso_credential",
		mcp.WithDescription("Register an OAuth provider's client credentials for social login. The "+
			"redirect URI defaults to {application domain}/auth/{provider}/callback."),
		mcp.WithString("provider",
			mcp.Required(),
			mcp.Description("Social provider, e.g. google, microsoft, github, linkedin"),
		),
		mcp.WithString("client_id",
			mcp.Required(),
			mcp.Description("OAuth client ID issued by the provider"),
		),
		mcp.WithString("client_secret",
			mcp.Required(),
			mcp.Description("OAuth client secret issued by the provider"),
		),
		mcp.WithString("redirect_uri",
			mcp.Description("Callback URI; defaults to the session's application domain plus /auth/{provider}/callback"),
		),
		mcp.WithBoolean("is_enable",
			mcp.Description("Enable the credential immediately, default true"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		provider := common.StringArg(args, "provider")
		if provider == "" {
			return common.ErrorResult("provider is required")
		}
		clientID := common.StringArg(args, "client_id")
		if clientID == "" {
			return common.ErrorResult("client_id is required")
		}
		clientSecret := common.StringArg(args, "client_secret")
		if clientSecret == "" {
			return common.ErrorResult("client_secret is required")
		}

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		redirectURI := common.StringArg(args, "redirect_uri")
		if redirectURI == "" {
			domain := sc.Session().Get().ApplicationDomain
			if domain == "" {
				return common.ErrorResult("no redirect_uri given and no application domain in session: " +
					"run get_projects or set_application_domain first")
			}
			redirectURI = fmt.Sprintf("%s/auth/%s/callback", domain, provider)
		}

		result, err := sc.Blocks().SaveSSOCredential(ctx, auth, blocks.SSOCredentialInput{
			ProjectKey:   projectKey,
			Provider:     provider,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			IsEnable:     common.BoolArg(args, "is_enable", true),
			RedirectURI:  redirectURI,
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to save sso credential: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("saving sso credential failed", result.Errors())
		}

		return common.JSONResult(common.Envelope{
			"status":       "success",
			"message":      fmt.Sprintf("SSO credential for %s saved", provider),
			"provider":     provider,
			"client_id":    truncateSecret(clientID),
			"redirect_uri": redirectURI,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("add_sso_credential",
		instrumentation.ServiceSSO, instrumentation.OperationSave, sc, handler))
	return nil
}

func registerSaveCaptchaConfigTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("save_captcha_config",
		mcp.WithDescription("Store a CAPTCHA provider configuration for a project. Returns the "+
			"refreshed configuration list."),
		mcp.WithString("provider",
			mcp.Required(),
			mcp.Description("CAPTCHA provider: recaptcha or hcaptcha"),
		),
		mcp.WithString("site_key",
			mcp.Required(),
			mcp.Description("Provider site key"),
		),
		mcp.WithString("secret_key",
			mcp.Required(),
			mcp.Description("Provider secret key"),
		),
		mcp.WithBoolean("is_enable",
			mcp.Description("Enable the configuration immediately, default true"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		provider := common.StringArg(args, "provider")
		if !blocks.ValidCaptchaProvider(provider) {
			return common.ErrorResult("provider is required and must be \"recaptcha\" or \"hcaptcha\"")
		}
		siteKey := common.StringArg(args, "site_key")
		if siteKey == "" {
			return common.ErrorResult("site_key is required")
		}
		secretKey := common.StringArg(args, "secret_key")
		if secretKey == "" {
			return common.ErrorResult("secret_key is required")
		}

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		result, err := sc.Blocks().SaveCaptchaConfig(ctx, auth, blocks.CaptchaConfigInput{
			ProjectKey: projectKey,
			Provider:   provider,
			SiteKey:    siteKey,
			SecretKey:  secretKey,
			IsEnable:   common.BoolArg(args, "is_enable", true),
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to save captcha config: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("saving captcha config failed", result.Errors())
		}

		payload := common.Envelope{
			"status":   "success",
			"message":  fmt.Sprintf("CAPTCHA config for %s saved", provider),
			"provider": provider,
			"site_key": truncateSecret(siteKey),
		}
		if list, err := sc.Blocks().ListCaptchaConfigs(ctx, auth, projectKey); err == nil {
			payload["updated_configurations"] = list.Configurations()
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("save_captcha_config",
		instrumentation.ServiceCaptcha, instrumentation.OperationSave, sc, handler))
	return nil
}

func registerListCaptchaConfigsTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("list_captcha_configs",
		mcp.WithDescription("List the CAPTCHA configurations of a project."),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		result, err := sc.Blocks().ListCaptchaConfigs(ctx, auth, projectKey)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to list captcha configs: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status":         "success",
			"project_key":    projectKey,
			"configurations": result.Configurations(),
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("list_captcha_configs",
		instrumentation.ServiceCaptcha, instrumentation.OperationList, sc, handler))
	return nil
}

func registerUpdateCaptchaStatusTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("update_captcha_status",
		mcp.WithDescription("Enable or disable an existing CAPTCHA configuration. Returns the "+
			"refreshed configuration list."),
		mcp.WithString("item_id",
			mcp.Required(),
			mcp.Description("Item ID of the configuration as returned by list_captcha_configs"),
		),
		mcp.WithBoolean("enable",
			mcp.Description("New status, default true"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		itemID := common.StringArg(args, "item_id")
		if itemID == "" {
			return common.ErrorResult("item_id is required")
		}
		enable := common.BoolArg(args, "enable", true)

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		result, err := sc.Blocks().UpdateCaptchaStatus(ctx, auth, projectKey, itemID, enable)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to update captcha status: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("captcha status update failed", result.Errors())
		}

		payload := common.Envelope{
			"status":  "success",
			"message": fmt.Sprintf("CAPTCHA configuration %s enabled=%t", itemID, enable),
		}
		if list, err := sc.Blocks().ListCaptchaConfigs(ctx, auth, projectKey); err == nil {
			payload["updated_configurations"] = list.Configurations()
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("update_captcha_status",
		instrumentation.ServiceCaptcha, instrumentation.OperationUpdate, sc, handler))
	return nil
}

func registerEnableMFATool(s *mcpserver.MCPServer, sc *server.ServerContext, name, description string, mfaTypes []int) error {
	tool := mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		result, err := sc.Blocks().SaveMFAConfig(ctx, auth, projectKey, true, mfaTypes)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to save mfa config: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("mfa configuration failed", result.Errors())
		}

		payload := common.Envelope{
			"status":    "success",
			"message":   fmt.Sprintf("MFA enabled for project %s", projectKey),
			"mfa_types": mfaTypes,
		}

		// Refresh the token lifetimes and grant types so the new factor is
		// actually enforced on the next login.
		if config, err := sc.Blocks().GetAuthConfig(ctx, auth, projectKey); err == nil {
			if itemID := authConfigItemID(config); itemID != "" {
				if _, err := sc.Blocks().UpdateAuthConfig(ctx, auth, blocks.AuthConfigInput{
					ItemID:     itemID,
					ProjectKey: projectKey,
				}); err == nil {
					payload["auth_config_updated"] = true
				}
			}
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(name,
		instrumentation.ServiceMFA, instrumentation.OperationSave, sc, handler))
	return nil
}
