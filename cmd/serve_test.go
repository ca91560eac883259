package cmd

import (
	"testing"
)

func TestLoadServeEnvVars(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		initial  ServeConfig
		expected ServeConfig
	}{
		{
			name: "no env vars keeps flag values",
			initial: ServeConfig{
				Transport: "stdio",
				HTTPAddr:  ":8080",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
			expected: ServeConfig{
				Transport: "stdio",
				HTTPAddr:  ":8080",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
		},
		{
			name: "transport and http addr from env",
			env: map[string]string{
				"BLOCKS_MCP_TRANSPORT": "streamable-http",
				"BLOCKS_MCP_HTTP_ADDR": ":9000",
			},
			initial: ServeConfig{
				Transport: "stdio",
				HTTPAddr:  ":8080",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
			expected: ServeConfig{
				Transport: "streamable-http",
				HTTPAddr:  ":9000",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
		},
		{
			name: "api settings from env",
			env: map[string]string{
				"BLOCKS_MCP_API_BASE_URL":  "https://api.example.com",
				"BLOCKS_MCP_BLOCKS_KEY":    "test-key",
				"BLOCKS_MCP_DOCS_BASE_URL": "https://docs.example.com",
			},
			initial: ServeConfig{
				Transport: "stdio",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
			expected: ServeConfig{
				Transport:   "stdio",
				APIBaseURL:  "https://api.example.com",
				BlocksKey:   "test-key",
				DocsBaseURL: "https://docs.example.com",
				Metrics:     MetricsConfig{Enabled: true, Addr: ":9090"},
			},
		},
		{
			name: "metrics disabled via env",
			env: map[string]string{
				"METRICS_ENABLED": "false",
				"METRICS_ADDR":    ":9191",
			},
			initial: ServeConfig{
				Transport: "stdio",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
			expected: ServeConfig{
				Transport: "stdio",
				Metrics:   MetricsConfig{Enabled: false, Addr: ":9191"},
			},
		},
		{
			name: "metrics enabled env value other than false is ignored",
			env: map[string]string{
				"METRICS_ENABLED": "yes",
			},
			initial: ServeConfig{
				Transport: "stdio",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
			expected: ServeConfig{
				Transport: "stdio",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cmd := newServeCmd()
			config := tt.initial
			loadServeEnvVars(cmd, &config)

			if config.Transport != tt.expected.Transport {
				t.Errorf("Transport = %q, want %q", config.Transport, tt.expected.Transport)
			}
			if config.HTTPAddr != tt.expected.HTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", config.HTTPAddr, tt.expected.HTTPAddr)
			}
			if config.APIBaseURL != tt.expected.APIBaseURL {
				t.Errorf("APIBaseURL = %q, want %q", config.APIBaseURL, tt.expected.APIBaseURL)
			}
			if config.BlocksKey != tt.expected.BlocksKey {
				t.Errorf("BlocksKey = %q, want %q", config.BlocksKey, tt.expected.BlocksKey)
			}
			if config.DocsBaseURL != tt.expected.DocsBaseURL {
				t.Errorf("DocsBaseURL = %q, want %q", config.DocsBaseURL, tt.expected.DocsBaseURL)
			}
			if config.Metrics.Enabled != tt.expected.Metrics.Enabled {
				t.Errorf("Metrics.Enabled = %v, want %v", config.Metrics.Enabled, tt.expected.Metrics.Enabled)
			}
			if config.Metrics.Addr != tt.expected.Metrics.Addr {
				t.Errorf("Metrics.Addr = %q, want %q", config.Metrics.Addr, tt.expected.Metrics.Addr)
			}
		})
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		tool     string
		expected string
	}{
		{"login", "Authentication Tools"},
		{"get_projects", "Project Tools"},
		{"finalize_schema", "Schema Tools"},
		{"set_role_permissions", "IAM Tools"},
		{"enable_authenticator_mfa", "Security Tools"},
		{"init_git_repository", "Repository Tools"},
		{"get_common_pitfalls", "Documentation Tools"},
		{"unknown_tool", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			if got := getCategoryFromToolName(tt.tool); got != tt.expected {
				t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.tool, got, tt.expected)
			}
		})
	}
}

func TestUnsupportedTransport(t *testing.T) {
	err := runServe(ServeConfig{
		Transport: "websocket",
		Metrics:   MetricsConfig{Enabled: false},
	}, false)
	if err == nil {
		t.Fatal("expected error for unsupported transport")
	}
}
