package docs_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/seliseblocks/blocks-mcp/internal/docs"
	"github.com/seliseblocks/blocks-mcp/internal/instrumentation"
	"github.com/seliseblocks/blocks-mcp/internal/server"
	"github.com/seliseblocks/blocks-mcp/internal/tools/batch"
	"github.com/seliseblocks/blocks-mcp/internal/tools/common"
)

// Topic IDs with special handling in get_documentation.
const (
	topicProjectSetup            = "project-setup"
	topicImplementationChecklist = "implementation-checklist"
	topicDevWorkflow             = "dev-workflow"
	topicArchitecturePatterns    = "architecture-patterns"
	topicCommonPitfalls          = "common-pitfalls"
)

// fallbackAgentTemplate is used when the CLAUDE.md template cannot be fetched
// from the documentation repository.
const fallbackAgentTemplate = `# SELISE Blocks Project

This project runs on the SELISE Blocks platform.

- Read the project-setup documentation before changing platform configuration.
- Schemas, roles and permissions are managed through the Blocks console or MCP tools.
- The dev branch is the one the platform builds from.
`

// RegisterDocsTools registers all documentation retrieval tools with the MCP server
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerListSectionsTool(s, sc); err != nil {
		return fmt.Errorf("failed to register list sections tool: %w", err)
	}
	if err := registerGetDocumentationTool(s, sc); err != nil {
		return fmt.Errorf("failed to register get documentation tool: %w", err)
	}
	if err := registerGetProjectSetupTool(s, sc); err != nil {
		return fmt.Errorf("failed to register get project setup tool: %w", err)
	}

	shortcuts := []struct {
		name        string
		topicID     string
		description string
	}{
		{"get_implementation_checklist", topicImplementationChecklist,
			"Fetch the implementation checklist: the ordered steps for building a feature on SELISE Blocks."},
		{"get_dev_workflow", topicDevWorkflow,
			"Fetch the development workflow documentation: branching, builds and deployments."},
		{"get_architecture_patterns", topicArchitecturePatterns,
			"Fetch the architecture patterns documentation for SELISE Blocks applications."},
		{"get_common_pitfalls", topicCommonPitfalls,
			"Fetch the common pitfalls documentation. Read this before debugging platform behavior."},
	}
	for _, shortcut := range shortcuts {
		if err := registerTopicShortcutTool(s, sc, shortcut.name, shortcut.topicID, shortcut.description); err != nil {
			return fmt.Errorf("failed to register %s tool: %w", shortcut.name, err)
		}
	}
	return nil
}

// topicSummary flattens a catalog topic for listing output.
func topicSummary(t docs.Topic) common.Envelope {
	out := common.Envelope{
		"id":       t.ID,
		"title":    t.Title,
		"type":     t.Type,
		"priority": t.Priority,
	}
	if t.ReadWhen != "" {
		out["read_when"] = t.ReadWhen
	}
	if len(t.UseCases) > 0 {
		out["use_cases"] = t.UseCases
	}
	if len(t.Triggers) > 0 {
		out["triggers"] = t.Triggers
	}
	if len(t.Warnings) > 0 {
		out["warnings"] = t.Warnings
	}
	return out
}

func registerListSectionsTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("list_sections",
		mcp.WithDescription("List the available SELISE Blocks documentation topics with their priorities. "+
			"Critical topics should be read before touching the platform."),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		catalog, err := sc.Docs().Catalog(ctx)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to fetch documentation catalog: %v", err))
		}

		topics := make([]common.Envelope, 0, len(catalog.Topics))
		for _, t := range catalog.Topics {
			topics = append(topics, topicSummary(t))
		}

		criticalFirstReads := make([]string, 0)
		for _, t := range catalog.ByPriority("critical") {
			criticalFirstReads = append(criticalFirstReads, t.ID)
		}

		return common.JSONResult(common.Envelope{
			"status":       "success",
			"version":      catalog.Version,
			"last_updated": catalog.LastUpdated,
			"summary": common.Envelope{
				"total_topics":         len(catalog.Topics),
				"guides":               catalog.CountByType("guide"),
				"recipes":              catalog.CountByType("recipe"),
				"references":           catalog.CountByType("reference"),
				"critical_first_reads": criticalFirstReads,
			},
			"topics": topics,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("list_sections",
		instrumentation.ServiceDocs, instrumentation.OperationList, sc, handler))
	return nil
}

func registerGetDocumentationTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("get_documentation",
		mcp.WithDescription("Fetch the content of one or more documentation topics by ID. Accepts a "+
			"single topic ID or an array of IDs; unknown IDs are reported under not_found."),
		mcp.WithString("topics",
			mcp.Required(),
			mcp.Description("Topic ID or array of topic IDs as listed by list_sections"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		ids, err := batch.ParseStringOrArray(args["topics"], "topics")
		if err != nil {
			return common.ErrorResult(err.Error())
		}

		catalog, err := sc.Docs().Catalog(ctx)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to fetch documentation catalog: %v", err))
		}

		notFound := make([]string, 0)
		known := make([]string, 0, len(ids))
		for _, id := range ids {
			if _, ok := catalog.Find(id); ok {
				known = append(known, id)
			} else {
				notFound = append(notFound, id)
			}
		}

		results := batch.ProcessBatch(known, func(id string) (string, error) {
			topic, _ := catalog.Find(id)
			doc, err := sc.Docs().FetchTopic(ctx, catalog, topic)
			if err != nil {
				return "", err
			}
			return doc.Content, nil
		})

		documents := make([]common.Envelope, 0, len(results))
		for _, r := range results {
			entry := common.Envelope{
				"id":     r.ID,
				"status": r.Status,
			}
			if r.Status == "success" {
				topic, _ := catalog.Find(r.ID)
				entry["title"] = topic.Title
				entry["content"] = r.Result
				if reminder := topicReminder(r.ID); reminder != "" {
					entry["reminder"] = reminder
				}
			} else {
				entry["error"] = r.Error
			}
			documents = append(documents, entry)
		}

		payload := common.Envelope{
			"status":    "success",
			"documents": documents,
		}
		if len(notFound) > 0 {
			payload["not_found"] = notFound
			payload["hint"] = "Unknown topic IDs; run list_sections for the catalog."
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("get_documentation",
		instrumentation.ServiceDocs, instrumentation.OperationGet, sc, handler))
	return nil
}

// topicReminder returns a follow-up hint for topics that anchor a workflow.
func topicReminder(id string) string {
	switch id {
	case topicProjectSetup:
		return "After project setup, run get_implementation_checklist before writing feature code."
	case topicImplementationChecklist:
		return "Work through the checklist in order; schema and IAM steps must precede data access."
	default:
		return ""
	}
}

func registerGetProjectSetupTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("get_project_setup",
		mcp.WithDescription("Fetch the project setup documentation together with the CLAUDE.md agent "+
			"guidance template to place in a new repository."),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		catalog, err := sc.Docs().Catalog(ctx)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to fetch documentation catalog: %v", err))
		}

		payload := common.Envelope{
			"status": "success",
		}

		if topic, ok := catalog.Find(topicProjectSetup); ok {
			doc, err := sc.Docs().FetchTopic(ctx, catalog, topic)
			if err != nil {
				return common.ErrorResult(fmt.Sprintf("failed to fetch project setup documentation: %v", err))
			}
			payload["title"] = topic.Title
			payload["content"] = doc.Content
			payload["reminder"] = topicReminder(topicProjectSetup)
		} else {
			payload["content"] = ""
			payload["hint"] = "No project-setup topic in the catalog; run list_sections."
		}

		template, err := sc.Docs().FetchAgentTemplate(ctx)
		templateSource := "repository"
		if err != nil || strings.TrimSpace(template) == "" {
			template = fallbackAgentTemplate
			templateSource = "fallback"
		}
		payload["claude_md_template"] = common.Envelope{
			"filename":     "CLAUDE.md",
			"content":      template,
			"source":       templateSource,
			"instructions": "Write this file to the repository root so coding agents pick up the project conventions.",
		}

		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("get_project_setup",
		instrumentation.ServiceDocs, instrumentation.OperationGet, sc, handler))
	return nil
}

// registerTopicShortcutTool registers a tool that fetches one well-known topic.
func registerTopicShortcutTool(s *mcpserver.MCPServer, sc *server.ServerContext, name, topicID, description string) error {
	tool := mcp.NewTool(name, mcp.WithDescription(description))

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		catalog, err := sc.Docs().Catalog(ctx)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to fetch documentation catalog: %v", err))
		}
		topic, ok := catalog.Find(topicID)
		if !ok {
			return common.ErrorResult(fmt.Sprintf("topic %s not present in the documentation catalog", topicID))
		}
		doc, err := sc.Docs().FetchTopic(ctx, catalog, topic)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to fetch topic %s: %v", topicID, err))
		}

		payload := common.Envelope{
			"status":  "success",
			"id":      topic.ID,
			"title":   topic.Title,
			"content": doc.Content,
		}
		if reminder := topicReminder(topicID); reminder != "" {
			payload["reminder"] = reminder
		}
		return common.JSONResult(payload)
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(name,
		instrumentation.ServiceDocs, instrumentation.OperationGet, sc, handler))
	return nil
}
