package iam_tools

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

// RegisterIAMTools registers all role and permission tools with the MCP server
func RegisterIAMTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerListRolesTool(s, sc); err != nil {
		return fmt.Errorf("failed to register list roles tool: %w", err)
	}
	if err := registerListPermissionsTool(s, sc); err != nil {
		return fmt.Errorf("failed to register list permissions tool: %w", err)
	}
	if err := registerGetResourceGroupsTool(s, sc); err != nil {
		return fmt.Errorf("failed to register get resource groups tool: %w", err)
	}
	if err := registerGetRolePermissionsTool(s, sc); err != nil {
		return fmt.Errorf("failed to register get role permissions tool: %w", err)
	}

	if !readOnly {
		if err := registerCreateRoleTool(s, sc); err != nil {
			return fmt.Errorf("failed to register create role tool: %w", err)
		}
		if err := registerCreatePermissionTool(s, sc); err != nil {
			return fmt.Errorf("failed to register create permission tool: %w", err)
		}
		if err := registerUpdatePermissionTool(s, sc); err != nil {
			return fmt.Errorf("failed to register update permission tool: %w", err)
		}
		if err := registerSetRolePermissionsTool(s, sc); err != nil {
			return fmt.Errorf("failed to register set role permissions tool: %w", err)
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

// stringSliceArg reads an array-of-strings argument, tolerating absent and
// mistyped entries.
func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func registerListRolesTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("list_roles",
		mcp.WithDescription("List the IAM roles of a project."),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
		mcp.WithString("search",
			mcp.Description("Filter roles by name"),
		),
		mcp.WithString("page",
			mcp.Description("Page number, default 0"),
		),
		mcp.WithString("page_size",
			mcp.Description("Page size, default 10"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		roles, err := sc.Blocks().ListRoles(ctx, auth, blocks.ListRolesInput{
			ProjectKey: projectKey,
			Search:     common.StringArg(args, "search"),
			Page:       common.IntArg(args, "page", 0),
			PageSize:   common.IntArg(args, "page_size", 0),
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to list roles: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status":      "success",
			"project_key": projectKey,
			"total_count": roles.TotalCount,
			"roles":       roles.Data,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("list_roles",
		instrumentation.ServiceIAM, instrumentation.OperationList, sc, handler))
	return nil
}

func registerCreateRoleTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("create_role",
		mcp.WithDescription("Create an IAM role. Returns the refreshed role list."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Role display name"),
		),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("Role slug used when assigning permissions, e.g. \"admin\""),
		),
		mcp.WithString("description",
			mcp.Description("Role description"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		name := common.StringArg(args, "name")
		if name == "" {
			return common.ErrorResult("name is required")
		}
		slug := common.StringArg(args, "slug")
		if slug == "" {
			return common.ErrorResult("slug is required")
		}

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		result, err := sc.Blocks().CreateRole(ctx, auth, blocks.CreateRoleInput{
			Name:        name,
			Slug:        slug,
			Description: common.StringArg(args, "description"),
			ProjectKey:  projectKey,
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to create role: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("role creation failed", result.Errors())
		}

		payload := common.Envelope{
			"status":  "success",
			"message": fmt.Sprintf("Role %s created", name),
		}
		if roles, err := sc.Blocks().ListRoles(ctx, auth, blocks.ListRolesInput{ProjectKey: projectKey}); err == nil {
			payload["updated_roles"] = roles.Data
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("create_role",
		instrumentation.ServiceIAM, instrumentation.OperationCreate, sc, handler))
	return nil
}

func registerListPermissionsTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("list_permissions",
		mcp.WithDescription("List the IAM permissions of a project, optionally scoped to roles."),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
		mcp.WithString("search",
			mcp.Description("Filter permissions by name"),
		),
		mcp.WithString("resource_group",
			mcp.Description("Filter by resource group"),
		),
		mcp.WithArray("roles",
			mcp.Description("Restrict to permissions assigned to these role slugs"),
		),
		mcp.WithString("page",
			mcp.Description("Page number, default 0"),
		),
		mcp.WithString("page_size",
			mcp.Description("Page size, default 10"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		permissions, err := sc.Blocks().ListPermissions(ctx, auth, blocks.ListPermissionsInput{
			ProjectKey:    projectKey,
			Search:        common.StringArg(args, "search"),
			ResourceGroup: common.StringArg(args, "resource_group"),
			Roles:         stringSliceArg(args, "roles"),
			Page:          common.IntArg(args, "page", 0),
			PageSize:      common.IntArg(args, "page_size", 0),
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to list permissions: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status":      "success",
			"project_key": projectKey,
			"total_count": permissions.TotalCount,
			"permissions": permissions.Data,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("list_permissions",
		instrumentation.ServiceIAM, instrumentation.OperationList, sc, handler))
	return nil
}

// permissionInputFromArgs builds the shared create/update permission input.
func permissionInputFromArgs(args map[string]interface{}, projectKey string) blocks.PermissionInput {
	return blocks.PermissionInput{
		ItemID:               common.StringArg(args, "item_id"),
		Name:                 common.StringArg(args, "name"),
		Description:          common.StringArg(args, "description"),
		Resource:             common.StringArg(args, "resource"),
		ResourceGroup:        common.StringArg(args, "resource_group"),
		Tags:                 stringSliceArg(args, "tags"),
		ProjectKey:           projectKey,
		Type:                 common.IntArg(args, "type", 0),
		DependentPermissions: stringSliceArg(args, "dependent_permissions"),
	}
}

func registerCreatePermissionTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("create_permission",
		mcp.WithDescription("Create an IAM permission. Type defaults to 3 (data protection). "+
			"Returns the refreshed permission list."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Permission name"),
		),
		mcp.WithString("resource",
			mcp.Required(),
			mcp.Description("Resource the permission guards, e.g. a schema name"),
		),
		mcp.WithString("resource_group",
			mcp.Description("Resource group the permission belongs to"),
		),
		mcp.WithString("description",
			mcp.Description("Permission description"),
		),
		mcp.WithArray("tags",
			mcp.Description("Permission tags"),
		),
		mcp.WithArray("dependent_permissions",
			mcp.Description("Names of permissions this one depends on"),
		),
		mcp.WithString("type",
			mcp.Description("Permission type code, default 3"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		if common.StringArg(args, "name") == "" {
			return common.ErrorResult("name is required")
		}
		if common.StringArg(args, "resource") == "" {
			return common.ErrorResult("resource is required")
		}

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		result, err := sc.Blocks().CreatePermission(ctx, auth, permissionInputFromArgs(args, projectKey))
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to create permission: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("permission creation failed", result.Errors())
		}

		payload := common.Envelope{
			"status":  "success",
			"message": fmt.Sprintf("Permission %s created", common.StringArg(args, "name")),
		}
		if permissions, err := sc.Blocks().ListPermissions(ctx, auth, blocks.ListPermissionsInput{ProjectKey: projectKey}); err == nil {
			payload["updated_permissions"] = permissions.Data
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("create_permission",
		instrumentation.ServiceIAM, instrumentation.OperationCreate, sc, handler))
	return nil
}

func registerUpdatePermissionTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("update_permission",
		mcp.WithDescription("Update an existing IAM permission selected by item_id. "+
			"Returns the refreshed permission list."),
		mcp.WithString("item_id",
			mcp.Required(),
			mcp.Description("Item ID of the permission to update"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Permission name"),
		),
		mcp.WithString("resource",
			mcp.Required(),
			mcp.Description("Resource the permission guards"),
		),
		mcp.WithString("resource_group",
			mcp.Description("Resource group the permission belongs to"),
		),
		mcp.WithString("description",
			mcp.Description("Permission description"),
		),
		mcp.WithArray("tags",
			mcp.Description("Permission tags"),
		),
		mcp.WithArray("dependent_permissions",
			mcp.Description("Names of permissions this one depends on"),
		),
		mcp.WithString("type",
			mcp.Description("Permission type code, default 3"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		if common.StringArg(args, "item_id") == "" {
			return common.ErrorResult("item_id is required")
		}
		if common.StringArg(args, "name") == "" {
			return common.ErrorResult("name is required")
		}
		if common.StringArg(args, "resource") == "" {
			return common.ErrorResult("resource is required")
		}

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		result, err := sc.Blocks().UpdatePermission(ctx, auth, permissionInputFromArgs(args, projectKey))
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to update permission: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("permission update failed", result.Errors())
		}

		payload := common.Envelope{
			"status":  "success",
			"message": fmt.Sprintf("Permission %s updated", common.StringArg(args, "name")),
		}
		if permissions, err := sc.Blocks().ListPermissions(ctx, auth, blocks.ListPermissionsInput{ProjectKey: projectKey}); err == nil {
			payload["updated_permissions"] = permissions.Data
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("update_permission",
		instrumentation.ServiceIAM, instrumentation.OperationUpdate, sc, handler))
	return nil
}

func registerGetResourceGroupsTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("get_resource_groups",
		mcp.WithDescription("List the resource groups in use by a project's permissions."),
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

		groups, err := sc.Blocks().GetResourceGroups(ctx, auth, projectKey)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to get resource groups: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status":          "success",
			"project_key":     projectKey,
			"resource_groups": groups,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("get_resource_groups",
		instrumentation.ServiceIAM, instrumentation.OperationGet, sc, handler))
	return nil
}

func registerSetRolePermissionsTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("set_role_permissions",
		mcp.WithDescription("Add and remove permissions on a role. Returns the role's refreshed "+
			"permission list."),
		mcp.WithString("role_slug",
			mcp.Required(),
			mcp.Description("Slug of the role to modify"),
		),
		mcp.WithArray("add_permissions",
			mcp.Description("Permission names to add"),
		),
		mcp.WithArray("remove_permissions",
			mcp.Description("Permission names to remove"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		roleSlug := common.StringArg(args, "role_slug")
		if roleSlug == "" {
			return common.ErrorResult("role_slug is required")
		}
		add := stringSliceArg(args, "add_permissions")
		remove := stringSliceArg(args, "remove_permissions")
		if len(add) == 0 && len(remove) == 0 {
			return common.ErrorResult("at least one of add_permissions or remove_permissions is required")
		}

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		result, err := sc.Blocks().SetRolePermissions(ctx, auth, blocks.SetRolePermissionsInput{
			RoleSlug:          roleSlug,
			AddPermissions:    add,
			RemovePermissions: remove,
			ProjectKey:        projectKey,
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to set role permissions: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("setting role permissions failed", result.Errors())
		}

		payload := common.Envelope{
			"status":  "success",
			"message": fmt.Sprintf("Permissions updated on role %s", roleSlug),
			"added":   add,
			"removed": remove,
		}
		if permissions, err := sc.Blocks().ListPermissions(ctx, auth, blocks.ListPermissionsInput{
			ProjectKey: projectKey,
			Roles:      []string{roleSlug},
		}); err == nil {
			payload["role_permissions"] = permissions.Data
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("set_role_permissions",
		instrumentation.ServiceIAM, instrumentation.OperationUpdate, sc, handler))
	return nil
}

func registerGetRolePermissionsTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("get_role_permissions",
		mcp.WithDescription("List the permissions currently assigned to a role."),
		mcp.WithString("role_slug",
			mcp.Required(),
			mcp.Description("Slug of the role"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
		mcp.WithString("page",
			mcp.Description("Page number, default 0"),
		),
		mcp.WithString("page_size",
			mcp.Description("Page size, default 10"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		roleSlug := common.StringArg(args, "role_slug")
		if roleSlug == "" {
			return common.ErrorResult("role_slug is required")
		}

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		permissions, err := sc.Blocks().ListPermissions(ctx, auth, blocks.ListPermissionsInput{
			ProjectKey: projectKey,
			Roles:      []string{roleSlug},
			Page:       common.IntArg(args, "page", 0),
			PageSize:   common.IntArg(args, "page_size", 0),
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to get role permissions: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status":      "success",
			"role_slug":   roleSlug,
			"project_key": projectKey,
			"total_count": permissions.TotalCount,
			"permissions": permissions.Data,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("get_role_permissions",
		instrumentation.ServiceIAM, instrumentation.OperationGet, sc, handler))
	return nil
}
