package iam_tools

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

func TestRegisterIAMTools_ReadOnly(t *testing.T) {
	sc := newTestServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.1")

	if err := RegisterIAMTools(s, sc, true); err != nil {
		t.Fatalf("RegisterIAMTools failed: %v", err)
	}

	for _, name := range []string{"list_roles", "list_permissions", "get_resource_groups", "get_role_permissions"} {
		if !hasTool(s, name) {
			t.Errorf("Expected %q to be registered in read-only mode", name)
		}
	}
	for _, name := range []string{"create_role", "create_permission", "update_permission", "set_role_permissions"} {
		if hasTool(s, name) {
			t.Errorf("Expected %q to be absent in read-only mode", name)
		}
	}
}

func TestRegisterIAMTools_WriteMode(t *testing.T) {
	sc := newTestServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.1")

	if err := RegisterIAMTools(s, sc, false); err != nil {
		t.Fatalf("RegisterIAMTools failed: %v", err)
	}

	expected := []string{
		"list_roles", "list_permissions", "get_resource_groups", "get_role_permissions",
		"create_role", "create_permission", "update_permission", "set_role_permissions",
	}
	for _, name := range expected {
		if !hasTool(s, name) {
			t.Errorf("Expected %q to be registered in write mode", name)
		}
	}
}

func TestStringSliceArg(t *testing.T) {
	args := map[string]interface{}{
		"tags":  []interface{}{"a", "b", "", 3},
		"wrong": "not-an-array",
	}

	if got := stringSliceArg(args, "tags"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Unexpected slice: %v", got)
	}
	if got := stringSliceArg(args, "wrong"); got != nil {
		t.Errorf("Expected nil for non-array value, got %v", got)
	}
	if got := stringSliceArg(args, "missing"); got != nil {
		t.Errorf("Expected nil for missing key, got %v", got)
	}
}

func TestPermissionInputFromArgs_Defaults(t *testing.T) {
	in := permissionInputFromArgs(map[string]interface{}{
		"name":     "ReadTasks",
		"resource": "Tasks",
	}, "tenant-1")

	if in.Name != "ReadTasks" {
		t.Errorf("Unexpected name: %q", in.Name)
	}
	if in.ProjectKey != "tenant-1" {
		t.Errorf("Unexpected project key: %q", in.ProjectKey)
	}
	if in.Type != 0 {
		t.Errorf("Expected zero type (client applies the default), got %d", in.Type)
	}
	if in.ItemID != "" {
		t.Errorf("Expected empty item ID, got %q", in.ItemID)
	}
}
