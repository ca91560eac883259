package security_tools

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

func TestRegisterSecurityTools_ReadOnly(t *testing.T) {
	sc := newTestServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.1")

	if err := RegisterSecurityTools(s, sc, true); err != nil {
		t.Fatalf("RegisterSecurityTools failed: %v", err)
	}

	for _, name := range []string{"get_authentication_config", "list_captcha_configs"} {
		if !hasTool(s, name) {
			t.Errorf("Expected %q to be registered in read-only mode", name)
		}
	}
	for _, name := range []string{
		"activate_social_login", "add_sso_credential", "save_captcha_config",
		"update_captcha_status", "enable_email_mfa", "enable_authenticator_mfa",
	} {
		if hasTool(s, name) {
			t.Errorf("Expected %q to be absent in read-only mode", name)
		}
	}
}

func TestRegisterSecurityTools_WriteMode(t *testing.T) {
	sc := newTestServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.1")

	if err := RegisterSecurityTools(s, sc, false); err != nil {
		t.Fatalf("RegisterSecurityTools failed: %v", err)
	}

	expected := []string{
		"get_authentication_config", "list_captcha_configs",
		"activate_social_login", "add_sso_credential", "save_captcha_config",
		"update_captcha_status", "enable_email_mfa", "enable_authenticator_mfa",
	}
	for _, name := range expected {
		if !hasTool(s, name) {
			t.Errorf("Expected %q to be registered in write mode", name)
		}
	}
}

func TestTruncateSecret(t *testing.T) {
	if got := truncateSecret("short"); got != "short" {
		t.Errorf("Expected short values unchanged, got %q", got)
	}
	long := "123456789012345678901234567890"
	if got := truncateSecret(long); got != "12345678901234567890..." {
		t.Errorf("Unexpected truncation: %q", got)
	}
}

func TestAuthConfigItemID(t *testing.T) {
	if got := authConfigItemID(map[string]any{"itemId": "cfg-1"}); got != "cfg-1" {
		t.Errorf("Expected cfg-1, got %q", got)
	}
	if got := authConfigItemID(map[string]any{"itemId": 7}); got != "" {
		t.Errorf("Expected empty for non-string itemId, got %q", got)
	}
	if got := authConfigItemID("not-a-map"); got != "" {
		t.Errorf("Expected empty for non-map config, got %q", got)
	}
	if got := authConfigItemID(nil); got != "" {
		t.Errorf("Expected empty for nil config, got %q", got)
	}
}
