package blocks

import (
	"context"
	"net/http"
	"net/url"

	"github.com/seliseblocks/blocks-mcp/internal/session"
)

// ListGitHubRepos returns the GitHub repositories connected to a project
// through the cloud build integration.
func (c *Client) ListGitHubRepos(ctx context.Context, auth session.AuthContext, projectKey string) ([]map[string]any, error) {
	query := url.Values{}
	query.Set("ProjectKey", projectKey)

	var repos []map[string]any
	if err := c.do(ctx, "list github repos", http.MethodGet, "/cloudbuild/v1/github/repos", query, &auth, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// RunBuildInput triggers a cloud build for a connected repository.
type RunBuildInput struct {
	ProjectKey   string
	RepositoryID string
	Branch       string
}

// RunBuild starts a cloud build.
func (c *Client) RunBuild(ctx context.Context, auth session.AuthContext, in RunBuildInput) (Result, error) {
	payload := map[string]any{
		"projectKey":   in.ProjectKey,
		"repositoryId": in.RepositoryID,
		"branch":       in.Branch,
	}

	var result Result
	if err := c.do(ctx, "run build", http.MethodPost, "/cloudbuild/v1/build/run-build", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}
