package cli

import (
	"fmt"
	"strings"
)

// VersionCommand checks whether the Blocks CLI is installed.
func VersionCommand() string {
	return "blocks --version"
}

// InstallCommand installs the Blocks CLI globally via npm.
func InstallCommand() string {
	return "npm install -g @seliseblocks/cli"
}

// NewRepositoryInput parameterizes the scaffold command for a local
// repository.
type NewRepositoryInput struct {
	RepositoryName    string
	Template          string
	UseCLI            bool
	TenantID          string
	ApplicationDomain string
}

// NewRepositoryCommand builds the `blocks new` command wiring the repository
// to its tenant and application domain.
func NewRepositoryCommand(in NewRepositoryInput) string {
	template := in.Template
	if template == "" {
		template = "web"
	}
	parts := []string{"blocks", "new", template, in.RepositoryName}
	if in.UseCLI {
		parts = append(parts, "--cli")
	}
	parts = append(parts, "--blocks-key", in.TenantID, "--app-domain", in.ApplicationDomain)
	return strings.Join(parts, " ")
}

// GitInitCommands returns the command sequence that initializes a repository,
// wires the GitHub remote and pushes the initial commit to the dev branch the
// platform builds from.
func GitInitCommands(githubName, repoName string) []string {
	return []string{
		"git init",
		fmt.Sprintf("git remote add origin https://github.com/%s/%s", githubName, repoName),
		"git branch -M dev",
		"git add .",
		"git commit -m 'feat: initiate project'",
		"git push -u origin dev",
	}
}

// RemoteURL returns the GitHub remote the init sequence points at.
func RemoteURL(githubName, repoName string) string {
	return fmt.Sprintf("https://github.com/%s/%s", githubName, repoName)
}
