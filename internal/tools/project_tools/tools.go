package project_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/seliseblocks/blocks-mcp/internal/blocks"
	"github.com/seliseblocks/blocks-mcp/internal/instrumentation"
	"github.com/seliseblocks/blocks-mcp/internal/server"
	"github.com/seliseblocks/blocks-mcp/internal/session"
	"github.com/seliseblocks/blocks-mcp/internal/tools/auth_tools"
	"github.com/seliseblocks/blocks-mcp/internal/tools/common"
)

// RegisterProjectTools registers all project management tools with the MCP server
func RegisterProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerGetProjectsTool(s, sc); err != nil {
		return fmt.Errorf("failed to register get projects tool: %w", err)
	}

	if !readOnly {
		if err := registerCreateProjectTool(s, sc); err != nil {
			return fmt.Errorf("failed to register create project tool: %w", err)
		}
	}
	return nil
}

// projectSummary flattens one listed project for the tool response.
func projectSummary(group blocks.ProjectGroup, project blocks.Project) common.Envelope {
	contexts := make([]common.Envelope, 0, len(project.ApplicationContexts))
	for _, appCtx := range project.ApplicationContexts {
		contexts = append(contexts, common.Envelope{
			"environment":   appCtx.Environment,
			"domain":        appCtx.Domain,
			"cookie_domain": appCtx.CookieDomain,
		})
	}
	return common.Envelope{
		"project_name":         project.Name,
		"tenant_id":            project.TenantID,
		"tenant_group_id":      group.TenantGroupID,
		"item_id":              project.ItemID,
		"application_contexts": contexts,
	}
}

func registerGetProjectsTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("get_projects",
		mcp.WithDescription("List the projects of the authenticated account grouped by tenant group. "+
			"When the session has no active project yet, the first listed project becomes the "+
			"active tenant context."),
		mcp.WithString("tenant_group_id",
			mcp.Description("Restrict the listing to one tenant group"),
		),
		mcp.WithString("page",
			mcp.Description("Page number, default 0"),
		),
		mcp.WithString("page_size",
			mcp.Description("Page size, default 100"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		auth, err := sc.Session().EnsureValid(ctx)
		if err != nil {
			return common.ErrorResult(err.Error())
		}

		groups, err := sc.Blocks().ListProjects(ctx, auth, blocks.ListProjectsInput{
			TenantGroupID: common.StringArg(args, "tenant_group_id"),
			Page:          common.IntArg(args, "page", 0),
			PageSize:      common.IntArg(args, "page_size", 0),
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to list projects: %v", err))
		}

		projects := make([]common.Envelope, 0)
		for _, group := range groups {
			for _, project := range group.Projects {
				projects = append(projects, projectSummary(group, project))
			}
		}

		// Adopt the first project as the active tenant when none is set yet.
		if sc.Session().Get().TenantID == "" && len(groups) > 0 && len(groups[0].Projects) > 0 {
			first := groups[0].Projects[0]
			update := session.NewUpdate().
				TenantID(first.TenantID).
				TenantGroupID(groups[0].TenantGroupID).
				ProjectName(first.Name)
			if domain := first.ApplicationDomain; domain != "" {
				update.ApplicationDomain(domain)
			}
			sc.Session().Apply(update)
		}

		return common.JSONResult(common.Envelope{
			"status":         "success",
			"total_projects": len(projects),
			"projects":       projects,
			"global_state":   auth_tools.GlobalState(sc.Session().Get()),
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("get_projects",
		instrumentation.ServiceProject, instrumentation.OperationList, sc, handler))
	return nil
}

func registerCreateProjectTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("create_project",
		mcp.WithDescription("Create a SELISE Blocks project and resolve its tenant ID and application "+
			"domain. The created project becomes the active tenant context of the session."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name"),
		),
		mcp.WithString("repo_name",
			mcp.Description("Name of the GitHub repository to connect (defaults to the project name)"),
		),
		mcp.WithString("repo_link",
			mcp.Description("HTTPS link of the GitHub repository to connect"),
		),
		mcp.WithString("repo_id",
			mcp.Description("Repository resource ID, default \"Any\""),
		),
		mcp.WithBoolean("is_production",
			mcp.Description("Create the project as a production project, default false"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		name := common.StringArg(args, "name")
		if name == "" {
			return common.ErrorResult("name is required")
		}

		auth, err := sc.Session().EnsureValid(ctx)
		if err != nil {
			return common.ErrorResult(err.Error())
		}

		result, err := sc.Blocks().CreateProject(ctx, auth, blocks.CreateProjectInput{
			Name:         name,
			RepoName:     common.StringArgDefault(args, "repo_name", name),
			RepoLink:     common.StringArg(args, "repo_link"),
			RepoID:       common.StringArg(args, "repo_id"),
			IsProduction: common.BoolArg(args, "is_production", false),
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to create project: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("project creation failed", result.Errors())
		}

		tenantGroupID, _ := result["tenantGroupId"].(string)
		if tenantGroupID == "" {
			return common.ErrorResultWithDetails(
				"project created but the response carried no tenantGroupId; run get_projects to locate it",
				result)
		}

		tenantID, err := sc.Blocks().TenantForProject(ctx, auth, tenantGroupID, name)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("project created but tenant lookup failed: %v", err))
		}

		domain, err := sc.Blocks().ApplicationDomainForProject(ctx, auth, tenantGroupID, name)
		if err != nil || domain == "" {
			// The platform provisions the real domain asynchronously.
			domain = blocks.PlaceholderDomain(name)
		}

		sc.Session().Apply(session.NewUpdate().
			TenantID(tenantID).
			TenantGroupID(tenantGroupID).
			ApplicationDomain(domain).
			ProjectName(name))

		return common.JSONResult(common.Envelope{
			"status":  "success",
			"message": fmt.Sprintf("Project %s created", name),
			"project": common.Envelope{
				"name":               name,
				"tenant_id":          tenantID,
				"tenant_group_id":    tenantGroupID,
				"application_domain": domain,
			},
			"global_state": auth_tools.GlobalState(sc.Session().Get()),
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("create_project",
		instrumentation.ServiceProject, instrumentation.OperationCreate, sc, handler))
	return nil
}
