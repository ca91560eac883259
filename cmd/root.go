package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the blocks-mcp application
var rootCmd = &cobra.Command{
	Use:   "blocks-mcp",
	Short: "MCP server for the SELISE Blocks cloud platform",
	Long: `blocks-mcp exposes the SELISE Blocks cloud platform to AI assistants
through the Model Context Protocol: authentication, project management,
GraphQL schemas, IAM, social login, CAPTCHA, MFA, cloud builds and the
platform documentation.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "blocks-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
