package blocks

import (
	"context"
	"net/http"
	"net/url"

	"github.com/seliseblocks/blocks-mcp/internal/session"
)

// PagedResult is the IAM list response shape.
type PagedResult struct {
	Data       []map[string]any `json:"data"`
	TotalCount int              `json:"totalCount"`
}

// ListRolesInput filters the role listing.
type ListRolesInput struct {
	ProjectKey     string
	Page           int
	PageSize       int
	Search         string
	SortBy         string
	SortDescending bool
}

// ListRoles lists the roles of a project.
func (c *Client) ListRoles(ctx context.Context, auth session.AuthContext, in ListRolesInput) (*PagedResult, error) {
	if in.PageSize == 0 {
		in.PageSize = 10
	}
	if in.SortBy == "" {
		in.SortBy = "Name"
	}
	payload := map[string]any{
		"projectKey": in.ProjectKey,
		"page":       in.Page,
		"pageSize":   in.PageSize,
		"filter": map[string]any{
			"search": in.Search,
		},
		"sort": map[string]any{
			"property":     in.SortBy,
			"isDescending": in.SortDescending,
		},
	}

	var result PagedResult
	if err := c.do(ctx, "list roles", http.MethodPost, "/iam/v1/Resource/GetRoles", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateRoleInput describes a new role.
type CreateRoleInput struct {
	Name        string
	Description string
	Slug        string
	ProjectKey  string
}

// CreateRole creates a role.
func (c *Client) CreateRole(ctx context.Context, auth session.AuthContext, in CreateRoleInput) (Result, error) {
	payload := map[string]any{
		"name":        in.Name,
		"description": in.Description,
		"slug":        in.Slug,
		"projectKey":  in.ProjectKey,
	}

	var result Result
	if err := c.do(ctx, "create role", http.MethodPost, "/iam/v1/Resource/CreateRole", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListPermissionsInput filters the permission listing. Roles narrows the
// result to permissions assigned to those role slugs.
type ListPermissionsInput struct {
	ProjectKey     string
	Page           int
	PageSize       int
	Search         string
	SortBy         string
	SortDescending bool
	IsBuiltIn      string
	ResourceGroup  string
	Roles          []string
}

// ListPermissions lists permissions, optionally scoped to roles.
func (c *Client) ListPermissions(ctx context.Context, auth session.AuthContext, in ListPermissionsInput) (*PagedResult, error) {
	if in.PageSize == 0 {
		in.PageSize = 10
	}
	if in.SortBy == "" {
		in.SortBy = "Name"
	}
	roles := in.Roles
	if roles == nil {
		roles = []string{}
	}
	payload := map[string]any{
		"page":       in.Page,
		"pageSize":   in.PageSize,
		"projectKey": in.ProjectKey,
		"roles":      roles,
		"sort": map[string]any{
			"property":     in.SortBy,
			"isDescending": in.SortDescending,
		},
		"filter": map[string]any{
			"search":        in.Search,
			"isBuiltIn":     in.IsBuiltIn,
			"resourceGroup": in.ResourceGroup,
		},
	}

	var result PagedResult
	if err := c.do(ctx, "list permissions", http.MethodPost, "/iam/v1/Resource/GetPermissions", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PermissionInput describes a permission for create and update. Type 3 is
// the console's "Data protection" kind.
type PermissionInput struct {
	ItemID               string
	Name                 string
	Description          string
	Resource             string
	ResourceGroup        string
	Tags                 []string
	ProjectKey           string
	Type                 int
	DependentPermissions []string
	IsBuiltIn            bool
}

func (in PermissionInput) payload() map[string]any {
	typ := in.Type
	if typ == 0 {
		typ = 3
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	dependent := in.DependentPermissions
	if dependent == nil {
		dependent = []string{}
	}
	payload := map[string]any{
		"name":                 in.Name,
		"type":                 typ,
		"resource":             in.Resource,
		"resourceGroup":        in.ResourceGroup,
		"tags":                 tags,
		"description":          in.Description,
		"dependentPermissions": dependent,
		"projectKey":           in.ProjectKey,
		"isBuiltIn":            in.IsBuiltIn,
	}
	if in.ItemID != "" {
		payload["itemId"] = in.ItemID
	}
	return payload
}

// CreatePermission creates a permission.
func (c *Client) CreatePermission(ctx context.Context, auth session.AuthContext, in PermissionInput) (Result, error) {
	var result Result
	if err := c.do(ctx, "create permission", http.MethodPost, "/iam/v1/Resource/CreatePermission", nil, &auth, in.payload(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdatePermission updates a permission; in.ItemID selects it.
func (c *Client) UpdatePermission(ctx context.Context, auth session.AuthContext, in PermissionInput) (Result, error) {
	var result Result
	if err := c.do(ctx, "update permission", http.MethodPost, "/iam/v1/Resource/UpdatePermission", nil, &auth, in.payload(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetResourceGroups returns the resource groups in use by a project's
// permissions.
func (c *Client) GetResourceGroups(ctx context.Context, auth session.AuthContext, projectKey string) ([]map[string]any, error) {
	query := url.Values{}
	query.Set("ProjectKey", projectKey)

	var groups []map[string]any
	if err := c.do(ctx, "get resource groups", http.MethodGet, "/iam/v1/Resource/GetResourceGroups", query, &auth, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// SetRolePermissionsInput adds and removes permissions on one role.
type SetRolePermissionsInput struct {
	RoleSlug          string
	AddPermissions    []string
	RemovePermissions []string
	ProjectKey        string
}

// SetRolePermissions applies a permission diff to a role.
func (c *Client) SetRolePermissions(ctx context.Context, auth session.AuthContext, in SetRolePermissionsInput) (Result, error) {
	add := in.AddPermissions
	if add == nil {
		add = []string{}
	}
	remove := in.RemovePermissions
	if remove == nil {
		remove = []string{}
	}
	payload := map[string]any{
		"addPermissions":    add,
		"removePermissions": remove,
		"projectKey":        in.ProjectKey,
		"slug":              in.RoleSlug,
	}

	var result Result
	if err := c.do(ctx, "set role permissions", http.MethodPost, "/iam/v1/Resource/SetRoles", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}
