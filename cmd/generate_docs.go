package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/seliseblocks/blocks-mcp/internal/blocks"
	"github.com/seliseblocks/blocks-mcp/internal/docs"
	"github.com/seliseblocks/blocks-mcp/internal/server"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// Create a temporary server context (no credentials are needed for doc generation)
	ctx := context.Background()
	serverContext, err := server.NewServerContext(ctx, blocks.New(blocks.Config{}), docs.NewClient(""))
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("blocks-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register with write operations enabled so every tool is documented
	readOnly := false

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	// Get the list of tools
	serverTools := mcpSrv.ListTools()

	// Extract mcp.Tool from each ServerTool
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		tools = append(tools, serverTool.Tool)
	}

	// Generate markdown documentation
	markdown := generateToolsMarkdown(tools)

	// Write to output
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running blocks-mcp as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	// Group tools by category
	toolsByCategory := groupToolsByCategory(tools)

	// Table of contents
	sb.WriteString("## Table of Contents\n\n")
	categories := make([]string, 0, len(toolsByCategory))
	for category := range toolsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		anchor := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", category, anchor))
	}
	sb.WriteString("\n")

	// Session note
	sb.WriteString("## Session and Project Selection\n\n")
	sb.WriteString("Tools that talk to the SELISE Blocks API require a prior `login` and operate on the project selected in the session:\n\n")
	sb.WriteString("- **Default behavior:** If `project_key` is not specified, the project currently held in the session is used\n")
	sb.WriteString("- **Per-tool override:** Most project-scoped tools accept an optional `project_key` argument\n")
	sb.WriteString("- **Write operations:** Only available when the server runs with `--yolo`\n\n")

	// Generate documentation for each category
	for _, category := range categories {
		categoryTools := toolsByCategory[category]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", category))

		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func groupToolsByCategory(tools []mcp.Tool) map[string][]mcp.Tool {
	categories := make(map[string][]mcp.Tool)

	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		categories[category] = append(categories[category], tool)
	}

	return categories
}

// toolCategories maps tool names to documentation sections. Unlike prefixed
// naming schemes the blocks tool names carry no category marker, so the
// mapping is explicit.
var toolCategories = map[string]string{
	"login":                  "Authentication Tools",
	"logout":                 "Authentication Tools",
	"get_auth_status":        "Authentication Tools",
	"get_global_state":       "Authentication Tools",
	"set_application_domain": "Authentication Tools",

	"get_projects":   "Project Tools",
	"create_project": "Project Tools",

	"list_schemas":           "Schema Tools",
	"get_schema":             "Schema Tools",
	"create_schema":          "Schema Tools",
	"update_schema_fields":   "Schema Tools",
	"finalize_schema":        "Schema Tools",
	"configure_data_gateway": "Schema Tools",

	"list_roles":           "IAM Tools",
	"list_permissions":     "IAM Tools",
	"get_resource_groups":  "IAM Tools",
	"get_role_permissions": "IAM Tools",
	"create_role":          "IAM Tools",
	"create_permission":    "IAM Tools",
	"update_permission":    "IAM Tools",
	"set_role_permissions": "IAM Tools",

	"get_authentication_config": "Security Tools",
	"activate_social_login":     "Security Tools",
	"add_sso_credential":        "Security Tools",
	"list_captcha_configs":      "Security Tools",
	"save_captcha_config":       "Security Tools",
	"update_captcha_status":     "Security Tools",
	"enable_email_mfa":          "Security Tools",
	"enable_authenticator_mfa":  "Security Tools",

	"check_blocks_cli":        "Repository Tools",
	"install_blocks_cli":      "Repository Tools",
	"create_local_repository": "Repository Tools",
	"init_git_repository":     "Repository Tools",
	"list_github_repos":       "Repository Tools",
	"run_build":               "Repository Tools",

	"list_sections":                "Documentation Tools",
	"get_documentation":            "Documentation Tools",
	"get_project_setup":            "Documentation Tools",
	"get_implementation_checklist": "Documentation Tools",
	"get_dev_workflow":             "Documentation Tools",
	"get_architecture_patterns":    "Documentation Tools",
	"get_common_pitfalls":          "Documentation Tools",
}

func getCategoryFromToolName(name string) string {
	if category, ok := toolCategories[name]; ok {
		return category
	}
	return "Other"
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	// Tool name
	sb.WriteString(fmt.Sprintf("### %s\n\n", tool.Name))

	// Description
	if tool.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.Description))
	}

	// Input schema
	if tool.InputSchema.Properties != nil && len(tool.InputSchema.Properties) > 0 {
		sb.WriteString("**Arguments:**\n")

		// Sort properties for consistent output
		propNames := make([]string, 0, len(tool.InputSchema.Properties))
		for name := range tool.InputSchema.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, name := range propNames {
			prop := tool.InputSchema.Properties[name]
			isRequired := contains(tool.InputSchema.Required, name)

			requiredStr := "optional"
			if isRequired {
				requiredStr = "required"
			}

			// Get property type and description from the property map
			propMap, ok := prop.(map[string]interface{})
			if !ok {
				continue
			}

			propType := getPropertyType(propMap)

			sb.WriteString(fmt.Sprintf("- `%s` (%s): ", name, requiredStr))

			// Get description
			if desc, ok := propMap["description"].(string); ok {
				sb.WriteString(desc)
			} else {
				sb.WriteString(fmt.Sprintf("%s parameter", propType))
			}

			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func getPropertyType(prop map[string]interface{}) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
