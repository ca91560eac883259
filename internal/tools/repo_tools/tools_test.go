package repo_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/seliseblocks/blocks-mcp/internal/blocks"
	"github.com/seliseblocks/blocks-mcp/internal/docs"
	"github.com/seliseblocks/blocks-mcp/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), blocks.New(blocks.Config{}), docs.NewClient(""))
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	t.Cleanup(func() {
		_ = sc.Shutdown()
	})
	return sc
}

func hasTool(s *mcpserver.MCPServer, name string) bool {
	for _, st := range s.ListTools() {
		if st.Tool.Name == name {
			return true
		}
	}
	return false
}

func TestRegisterRepoTools_ReadOnly(t *testing.T) {
	sc := newTestServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.1")

	if err := RegisterRepoTools(s, sc, true); err != nil {
		t.Fatalf("RegisterRepoTools failed: %v", err)
	}

	// Command generators stay available in read-only mode; they execute nothing.
	expected := []string{
		"check_blocks_cli", "install_blocks_cli", "create_local_repository",
		"init_git_repository", "list_github_repos",
	}
	for _, name := range expected {
		if !hasTool(s, name) {
			t.Errorf("Expected %q to be registered in read-only mode", name)
		}
	}
	if hasTool(s, "run_build") {
		t.Error("Expected run_build to be absent in read-only mode")
	}
}

func TestRegisterRepoTools_WriteMode(t *testing.T) {
	sc := newTestServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.1")

	if err := RegisterRepoTools(s, sc, false); err != nil {
		t.Fatalf("RegisterRepoTools failed: %v", err)
	}

	if !hasTool(s, "run_build") {
		t.Error("Expected run_build to be registered in write mode")
	}
}
