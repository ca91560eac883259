package schema_tools

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

// RegisterSchemaTools registers all GraphQL schema tools with the MCP server
func RegisterSchemaTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerListSchemasTool(s, sc); err != nil {
		return fmt.Errorf("failed to register list schemas tool: %w", err)
	}
	if err := registerGetSchemaTool(s, sc); err != nil {
		return fmt.Errorf("failed to register get schema tool: %w", err)
	}

	if !readOnly {
		if err := registerCreateSchemaTool(s, sc); err != nil {
			return fmt.Errorf("failed to register create schema tool: %w", err)
		}
		if err := registerUpdateSchemaFieldsTool(s, sc); err != nil {
			return fmt.Errorf("failed to register update schema fields tool: %w", err)
		}
		if err := registerFinalizeSchemaTool(s, sc); err != nil {
			return fmt.Errorf("failed to register finalize schema tool: %w", err)
		}
		if err := registerConfigureDataGatewayTool(s, sc); err != nil {
			return fmt.Errorf("failed to register configure data gateway tool: %w", err)
		}
	}
	return nil
}

// resolveAuth resolves the tenant and ensures a valid token in the order the
// tenant-scoped tools need them. A non-nil result is the error envelope to
// return to the caller.
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

func registerCreateSchemaTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("create_schema",
		mcp.WithDescription("Create a GraphQL schema for the active project. The collection is named "+
			"after the schema with an \"s\" suffix. Returns the refreshed schema list."),
		mcp.WithString("schema_name",
			mcp.Required(),
			mcp.Description("Schema name, e.g. \"Task\""),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		schemaName := common.StringArg(args, "schema_name")
		if schemaName == "" {
			return common.ErrorResult("schema_name is required")
		}

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		created, err := sc.Blocks().CreateSchema(ctx, auth, schemaName, projectKey)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to create schema: %v", err))
		}

		payload := common.Envelope{
			"status":          "success",
			"message":         fmt.Sprintf("Schema %s created", schemaName),
			"schema_name":     created.SchemaName,
			"collection_name": created.CollectionName,
			"schema_type":     created.SchemaType,
			"response":        created.Response,
		}

		// Refetch so the caller sees the schema ID without a second round trip.
		if schemas, err := sc.Blocks().ListSchemas(ctx, auth, blocks.ListSchemasInput{ProjectKey: projectKey}); err == nil {
			payload["updated_schemas_list"] = schemas
		}

		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("create_schema",
		instrumentation.ServiceSchema, instrumentation.OperationCreate, sc, handler))
	return nil
}

func registerListSchemasTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("list_schemas",
		mcp.WithDescription("List the GraphQL schemas of a project."),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
		mcp.WithString("keyword",
			mcp.Description("Filter schemas by keyword"),
		),
		mcp.WithString("page_number",
			mcp.Description("Page number, default 1"),
		),
		mcp.WithString("page_size",
			mcp.Description("Page size, default 100"),
		),
		mcp.WithString("sort_by",
			mcp.Description("Sort property, default CreatedDate"),
		),
		mcp.WithBoolean("sort_descending",
			mcp.Description("Sort direction, default false"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		schemas, err := sc.Blocks().ListSchemas(ctx, auth, blocks.ListSchemasInput{
			ProjectKey:     projectKey,
			Keyword:        common.StringArg(args, "keyword"),
			PageNumber:     common.IntArg(args, "page_number", 0),
			PageSize:       common.IntArg(args, "page_size", 0),
			SortBy:         common.StringArg(args, "sort_by"),
			SortDescending: common.BoolArg(args, "sort_descending", false),
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to list schemas: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status":      "success",
			"project_key": projectKey,
			"schemas":     schemas,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("list_schemas",
		instrumentation.ServiceSchema, instrumentation.OperationList, sc, handler))
	return nil
}

func registerGetSchemaTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("get_schema",
		mcp.WithDescription("Fetch one GraphQL schema with its current field definitions."),
		mcp.WithString("schema_id",
			mcp.Required(),
			mcp.Description("Schema definition item ID as returned by list_schemas"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		schemaID := common.StringArg(args, "schema_id")
		if schemaID == "" {
			return common.ErrorResult("schema_id is required")
		}

		auth, err := sc.Session().EnsureValid(ctx)
		if err != nil {
			return common.ErrorResult(err.Error())
		}

		schema, err := sc.Blocks().GetSchema(ctx, auth, schemaID)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to get schema: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status": "success",
			"schema": schema,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("get_schema",
		instrumentation.ServiceSchema, instrumentation.OperationGet, sc, handler))
	return nil
}

func registerUpdateSchemaFieldsTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("update_schema_fields",
		mcp.WithDescription("Replace a schema's field list. The fields array must contain the complete "+
			"set of fields (existing plus new); the platform treats it as authoritative."),
		mcp.WithString("schema_id",
			mcp.Required(),
			mcp.Description("Schema definition item ID"),
		),
		mcp.WithArray("fields",
			mcp.Required(),
			mcp.Description("Complete field definitions, each {fieldName, fieldType, ...}"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		schemaID := common.StringArg(args, "schema_id")
		if schemaID == "" {
			return common.ErrorResult("schema_id is required")
		}
		fields, ok := args["fields"].([]interface{})
		if !ok || len(fields) == 0 {
			return common.ErrorResult("fields is required and must be a non-empty array")
		}

		auth, err := sc.Session().EnsureValid(ctx)
		if err != nil {
			return common.ErrorResult(err.Error())
		}

		result, err := sc.Blocks().UpdateSchemaFields(ctx, auth, schemaID, fields)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to update schema fields: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("schema field update failed", result.Errors())
		}

		return common.JSONResult(common.Envelope{
			"status":      "success",
			"message":     fmt.Sprintf("Schema %s fields updated", schemaID),
			"field_count": len(fields),
			"response":    map[string]any(result),
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("update_schema_fields",
		instrumentation.ServiceSchema, instrumentation.OperationUpdate, sc, handler))
	return nil
}

func registerFinalizeSchemaTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("finalize_schema",
		mcp.WithDescription("Re-fetch a schema after field updates and report its final shape. Use this "+
			"to verify that all fields landed before wiring the data gateway."),
		mcp.WithString("schema_id",
			mcp.Required(),
			mcp.Description("Schema definition item ID"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		schemaID := common.StringArg(args, "schema_id")
		if schemaID == "" {
			return common.ErrorResult("schema_id is required")
		}

		auth, err := sc.Session().EnsureValid(ctx)
		if err != nil {
			return common.ErrorResult(err.Error())
		}

		schema, err := sc.Blocks().GetSchema(ctx, auth, schemaID)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to finalize schema: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status":  "success",
			"message": fmt.Sprintf("Schema %s finalized", schemaID),
			"schema":  schema,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("finalize_schema",
		instrumentation.ServiceSchema, instrumentation.OperationFinalize, sc, handler))
	return nil
}

func registerConfigureDataGatewayTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("configure_data_gateway",
		mcp.WithDescription("Enable the GraphQL data gateway for a project so its schemas are queryable "+
			"at graphql/v1/{projectKey}."),
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

		gatewayConfig := sc.Blocks().DefaultGatewayConfig(projectKey)
		result, err := sc.Blocks().ConfigureDataGateway(ctx, auth, projectKey, gatewayConfig)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to configure data gateway: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("data gateway configuration failed", result.Errors())
		}

		return common.JSONResult(common.Envelope{
			"status":         "success",
			"message":        fmt.Sprintf("Data gateway configured for project %s", projectKey),
			"gateway_config": gatewayConfig,
			"response":       map[string]any(result),
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("configure_data_gateway",
		instrumentation.ServiceSchema, instrumentation.OperationUpdate, sc, handler))
	return nil
}
