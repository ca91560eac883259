package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRepositoryCommand(t *testing.T) {
	cmd := NewRepositoryCommand(NewRepositoryInput{
		RepositoryName:    "demo",
		UseCLI:            true,
		TenantID:          "proj-1",
		ApplicationDomain: "https://dev-demo.seliseblocks.com",
	})
	assert.Equal(t, "blocks new web demo --cli --blocks-key proj-1 --app-domain https://dev-demo.seliseblocks.com", cmd)
}

func TestNewRepositoryCommandWithoutCLIFlag(t *testing.T) {
	cmd := NewRepositoryCommand(NewRepositoryInput{
		RepositoryName:    "demo",
		Template:          "mobile",
		TenantID:          "proj-1",
		ApplicationDomain: "https://dev-demo.seliseblocks.com",
	})
	assert.Equal(t, "blocks new mobile demo --blocks-key proj-1 --app-domain https://dev-demo.seliseblocks.com", cmd)
}

func TestGitInitCommands(t *testing.T) {
	cmds := GitInitCommands("acme", "demo")
	assert.Equal(t, []string{
		"git init",
		"git remote add origin https://github.com/acme/demo",
		"git branch -M dev",
		"git add .",
		"git commit -m 'feat: initiate project'",
		"git push -u origin dev",
	}, cmds)
}

func TestStaticCommands(t *testing.T) {
	assert.Equal(t, "blocks --version", VersionCommand())
	assert.Equal(t, "npm install -g @seliseblocks/cli", InstallCommand())
	assert.Equal(t, "https://github.com/acme/demo", RemoteURL("acme", "demo"))
}
