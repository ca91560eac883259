package blocks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/seliseblocks/blocks-mcp/internal/session"
)

// ApplicationContext is one provisioned environment of a project.
type ApplicationContext struct {
	Environment  string `json:"environment"`
	Domain       string `json:"domain"`
	CookieDomain string `json:"cookieDomain"`
}

// Project as returned inside a tenant group.
type Project struct {
	ItemID              string               `json:"itemId"`
	Name                string               `json:"name"`
	TenantID            string               `json:"tenantId"`
	Environment         string               `json:"environment"`
	ApplicationDomain   string               `json:"applicationDomain"`
	CookieDomain        string               `json:"cookieDomain"`
	ApplicationContexts []ApplicationContext `json:"applicationContexts"`
}

// ProjectGroup is the Gets response element grouping projects by tenant group.
type ProjectGroup struct {
	TenantGroupID string    `json:"tenantGroupId"`
	Projects      []Project `json:"projects"`
}

// ProjectDetail is the single-project Get response.
type ProjectDetail struct {
	ItemID              string               `json:"itemId"`
	Name                string               `json:"name"`
	ApplicationContexts []ApplicationContext `json:"applicationContexts"`
}

// ListProjectsInput filters the project listing.
type ListProjectsInput struct {
	TenantGroupID string
	Page          int
	PageSize      int
}

// ListProjects fetches the caller's projects grouped by tenant group.
func (c *Client) ListProjects(ctx context.Context, auth session.AuthContext, in ListProjectsInput) ([]ProjectGroup, error) {
	if in.PageSize == 0 {
		in.PageSize = 100
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(in.Page))
	query.Set("pageSize", strconv.Itoa(in.PageSize))
	if in.TenantGroupID != "" {
		query.Set("tenantGroupId", in.TenantGroupID)
	}

	var groups []ProjectGroup
	if err := c.do(ctx, "list projects", http.MethodGet, "/identifier/v1/Project/Gets", query, &auth, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetProject fetches one project by its item ID.
func (c *Client) GetProject(ctx context.Context, auth session.AuthContext, itemID string) (*ProjectDetail, error) {
	query := url.Values{}
	query.Set("id", itemID)

	var detail ProjectDetail
	if err := c.do(ctx, "get project", http.MethodGet, "/identifier/v1/Project/Get", query, &auth, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateProjectInput describes a new project.
type CreateProjectInput struct {
	Name         string
	RepoName     string
	RepoLink     string
	RepoID       string
	IsProduction bool
}

// PlaceholderDomain is the dev domain assigned until the platform provisions
// the real one.
func PlaceholderDomain(projectName string) string {
	return fmt.Sprintf("https://dev-%s-placeholder.seliseblocks.com", projectName)
}

// CreateProject creates a project and returns the raw response; the caller
// needs the tenantGroupId out of it.
func (c *Client) CreateProject(ctx context.Context, auth session.AuthContext, in CreateProjectInput) (Result, error) {
	repoID := in.RepoID
	if repoID == "" {
		repoID = "Any"
	}
	payload := map[string]any{
		"name":                  in.Name,
		"isAcceptBlocksTerms":   true,
		"isUseBlocksExclusively": true,
		"isProduction":          in.IsProduction,
		"resources": []map[string]any{{
			"name":       in.RepoName,
			"link":       in.RepoLink,
			"resourceId": repoID,
		}},
		"applicationContexts": []map[string]any{{
			"environment":  "dev",
			"domain":       PlaceholderDomain(in.Name),
			"cookieDomain": "seliseblocks.com",
		}},
	}

	var result Result
	if err := c.do(ctx, "create project", http.MethodPost, "/identifier/v1/Project/Create", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TenantForProject looks up a project's tenant ID inside a tenant group.
// Returns empty when the project is not there yet.
func (c *Client) TenantForProject(ctx context.Context, auth session.AuthContext, tenantGroupID, projectName string) (string, error) {
	groups, err := c.ListProjects(ctx, auth, ListProjectsInput{TenantGroupID: tenantGroupID})
	if err != nil {
		return "", err
	}
	for _, group := range groups {
		for _, project := range group.Projects {
			if project.Name == projectName {
				return project.TenantID, nil
			}
		}
	}
	return "", nil
}

// ApplicationDomainForProject resolves the real application domain of a
// project, preferring the listing's applicationDomain field and falling back
// to the per-item application contexts.
func (c *Client) ApplicationDomainForProject(ctx context.Context, auth session.AuthContext, tenantGroupID, projectName string) (string, error) {
	groups, err := c.ListProjects(ctx, auth, ListProjectsInput{TenantGroupID: tenantGroupID})
	if err != nil {
		return "", err
	}
	var itemID string
	for _, group := range groups {
		for _, project := range group.Projects {
			if project.Name != projectName {
				continue
			}
			if project.ApplicationDomain != "" {
				return project.ApplicationDomain, nil
			}
			itemID = project.ItemID
		}
	}
	if itemID == "" {
		return "", nil
	}

	detail, err := c.GetProject(ctx, auth, itemID)
	if err != nil {
		return "", err
	}
	return domainFromContexts(detail.ApplicationContexts), nil
}

// domainFromContexts prefers the dev environment, then the first context with
// a domain.
func domainFromContexts(contexts []ApplicationContext) string {
	for _, c := range contexts {
		if c.Environment == "dev" && c.Domain != "" {
			return c.Domain
		}
	}
	for _, c := range contexts {
		if c.Domain != "" {
			return c.Domain
		}
	}
	return ""
}
