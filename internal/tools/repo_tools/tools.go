package repo_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/seliseblocks/blocks-mcp/internal/blocks"
	"github.com/seliseblocks/blocks-mcp/internal/cli"
	"github.com/seliseblocks/blocks-mcp/internal/instrumentation"
	"github.com/seliseblocks/blocks-mcp/internal/server"
	"github.com/seliseblocks/blocks-mcp/internal/session"
	"github.com/seliseblocks/blocks-mcp/internal/tools/common"
)

// RegisterRepoTools registers the repository scaffolding and cloud build
// tools with the MCP server. The scaffolding tools only generate shell
// commands for the caller to run; nothing is executed server-side.
func RegisterRepoTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerCheckCLITool(s, sc); err != nil {
		return fmt.Errorf("failed to register check cli tool: %w", err)
	}
	if err := registerInstallCLITool(s, sc); err != nil {
		return fmt.Errorf("failed to register install cli tool: %w", err)
	}
	if err := registerCreateLocalRepositoryTool(s, sc); err != nil {
		return fmt.Errorf("failed to register create local repository tool: %w", err)
	}
	if err := registerInitGitRepositoryTool(s, sc); err != nil {
		return fmt.Errorf("failed to register init git repository tool: %w", err)
	}
	if err := registerListGitHubReposTool(s, sc); err != nil {
		return fmt.Errorf("failed to register list github repos tool: %w", err)
	}

	if !readOnly {
		if err := registerRunBuildTool(s, sc); err != nil {
			return fmt.Errorf("failed to register run build tool: %w", err)
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

func registerCheckCLITool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("check_blocks_cli",
		mcp.WithDescription("Return the shell command that checks whether the Blocks CLI is installed. "+
			"Run the command yourself; this tool does not execute it."),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return common.JSONResult(common.Envelope{
			"status":       "success",
			"command":      cli.VersionCommand(),
			"instructions": "Run this command in a terminal. A version number means the CLI is installed; otherwise use install_blocks_cli.",
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandler("check_blocks_cli", sc, handler))
	return nil
}

func registerInstallCLITool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("install_blocks_cli",
		mcp.WithDescription("Return the shell command that installs the Blocks CLI globally via npm. "+
			"Run the command yourself; this tool does not execute it."),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return common.JSONResult(common.Envelope{
			"status":       "success",
			"command":      cli.InstallCommand(),
			"instructions": "Run this command in a terminal. Requires Node.js and npm. Verify afterwards with check_blocks_cli.",
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandler("install_blocks_cli", sc, handler))
	return nil
}

func registerCreateLocalRepositoryTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("create_local_repository",
		mcp.WithDescription("Return the `blocks new` command that scaffolds a local repository wired to "+
			"the active project's tenant and application domain. Run the command yourself; this tool "+
			"does not execute it."),
		mcp.WithString("repo_name",
			mcp.Required(),
			mcp.Description("Name of the local repository directory"),
		),
		mcp.WithString("template",
			mcp.Description("Scaffold template, default \"web\""),
		),
		mcp.WithBoolean("use_cli",
			mcp.Description("Pass --cli to the scaffold command, default false"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		repoName := common.StringArg(args, "repo_name")
		if repoName == "" {
			return common.ErrorResult("repo_name is required")
		}

		projectKey, err := sc.Session().ResolveTenant(common.GetProjectKeyFromArgs(args))
		if err != nil {
			return common.ErrorResult(err.Error())
		}
		domain := sc.Session().Get().ApplicationDomain
		if domain == "" {
			return common.ErrorResult("no application domain in session: run get_projects or set_application_domain first")
		}

		command := cli.NewRepositoryCommand(cli.NewRepositoryInput{
			RepositoryName:    repoName,
			Template:          common.StringArg(args, "template"),
			UseCLI:            common.BoolArg(args, "use_cli", false),
			TenantID:          projectKey,
			ApplicationDomain: domain,
		})

		return common.JSONResult(common.Envelope{
			"status":       "success",
			"command":      command,
			"instructions": "Run this command in the directory where the repository should be created.",
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandler("create_local_repository", sc, handler))
	return nil
}

func registerInitGitRepositoryTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("init_git_repository",
		mcp.WithDescription("Return the git command sequence that initializes a scaffolded repository, "+
			"wires the GitHub remote and pushes the initial commit to the dev branch the platform "+
			"builds from. Run the commands yourself; this tool does not execute them."),
		mcp.WithString("github_name",
			mcp.Required(),
			mcp.Description("GitHub account or organization name"),
		),
		mcp.WithString("repo_name",
			mcp.Required(),
			mcp.Description("GitHub repository name"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		githubName := common.StringArg(args, "github_name")
		if githubName == "" {
			return common.ErrorResult("github_name is required")
		}
		repoName := common.StringArg(args, "repo_name")
		if repoName == "" {
			return common.ErrorResult("repo_name is required")
		}

		return common.JSONResult(common.Envelope{
			"status":       "success",
			"commands":     cli.GitInitCommands(githubName, repoName),
			"remote_url":   cli.RemoteURL(githubName, repoName),
			"instructions": "Run these commands in order inside the scaffolded repository. The GitHub repository must already exist.",
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandler("init_git_repository", sc, handler))
	return nil
}

func registerListGitHubReposTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("list_github_repos",
		mcp.WithDescription("List the GitHub repositories connected to a project through the cloud "+
			"build integration."),
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

		repos, err := sc.Blocks().ListGitHubRepos(ctx, auth, projectKey)
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to list github repos: %v", err))
		}

		return common.JSONResult(common.Envelope{
			"status":       "success",
			"project_key":  projectKey,
			"repositories": repos,
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("list_github_repos",
		instrumentation.ServiceCloudBuild, instrumentation.OperationList, sc, handler))
	return nil
}

func registerRunBuildTool(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("run_build",
		mcp.WithDescription("Trigger a cloud build for a connected GitHub repository."),
		mcp.WithString("repository_id",
			mcp.Required(),
			mcp.Description("Repository ID as returned by list_github_repos"),
		),
		mcp.WithString("branch",
			mcp.Description("Branch to build, default dev"),
		),
		mcp.WithString("project_key",
			mcp.Description("Project key (tenant ID); defaults to the session's active project"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		repositoryID := common.StringArg(args, "repository_id")
		if repositoryID == "" {
			return common.ErrorResult("repository_id is required")
		}

		auth, projectKey, errResult := resolveAuth(ctx, sc, args)
		if errResult != nil {
			return errResult, nil
		}

		result, err := sc.Blocks().RunBuild(ctx, auth, blocks.RunBuildInput{
			ProjectKey:   projectKey,
			RepositoryID: repositoryID,
			Branch:       common.StringArgDefault(args, "branch", "dev"),
		})
		if err != nil {
			return common.ErrorResult(fmt.Sprintf("failed to run build: %v", err))
		}
		if !result.Succeeded() {
			return common.ErrorResultWithDetails("build trigger failed", result.Errors())
		}

		return common.JSONResult(common.Envelope{
			"status":   "success",
			"message":  fmt.Sprintf("Build triggered for repository %s", repositoryID),
			"response": map[string]any(result),
		})
	}

	s.AddTool(tool, common.InstrumentedToolHandlerWithService("run_build",
		instrumentation.ServiceCloudBuild, instrumentation.OperationCreate, sc, handler))
	return nil
}
