package blocks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/seliseblocks/blocks-mcp/internal/session"
)

// CreateSchemaResult keeps the derived schema parameters next to the raw
// vendor response.
type CreateSchemaResult struct {
	SchemaName     string
	CollectionName string
	SchemaType     int
	ProjectKey     string
	Response       any
}

// CreateSchema creates a GraphQL schema. The collection is always the schema
// name with an "s" suffix and schema type 1, matching the console. The
// endpoint sometimes answers with plain text, so the response is decoded
// tolerantly.
func (c *Client) CreateSchema(ctx context.Context, auth session.AuthContext, schemaName, projectKey string) (*CreateSchemaResult, error) {
	result := &CreateSchemaResult{
		SchemaName:     schemaName,
		CollectionName: schemaName + "s",
		SchemaType:     1,
		ProjectKey:     projectKey,
	}
	payload := map[string]any{
		"schemaName":     result.SchemaName,
		"collectionName": result.CollectionName,
		"schemaType":     result.SchemaType,
		"projectKey":     result.ProjectKey,
	}

	raw, err := c.doRaw(ctx, "create schema", http.MethodPost, "/graphql/v1/schemas/info", nil, &auth, payload)
	if err != nil {
		return nil, err
	}

	var decoded any
	if json.Unmarshal(raw, &decoded) == nil {
		result.Response = decoded
	} else {
		result.Response = strings.TrimSpace(string(raw))
	}
	return result, nil
}

// ListSchemasInput filters the schema listing.
type ListSchemasInput struct {
	ProjectKey     string
	Keyword        string
	PageSize       int
	PageNumber     int
	SortDescending bool
	SortBy         string
}

// ListSchemas lists the schemas of a project.
func (c *Client) ListSchemas(ctx context.Context, auth session.AuthContext, in ListSchemasInput) (any, error) {
	if in.PageSize == 0 {
		in.PageSize = 100
	}
	if in.PageNumber == 0 {
		in.PageNumber = 1
	}
	if in.SortBy == "" {
		in.SortBy = "CreatedDate"
	}
	query := url.Values{}
	query.Set("Keyword", in.Keyword)
	query.Set("PageSize", strconv.Itoa(in.PageSize))
	query.Set("PageNumber", strconv.Itoa(in.PageNumber))
	query.Set("SortDescending", strconv.FormatBool(in.SortDescending))
	query.Set("SortBy", in.SortBy)
	query.Set("ProjectKey", in.ProjectKey)

	var schemas any
	if err := c.do(ctx, "list schemas", http.MethodGet, "/graphql/v1/schemas", query, &auth, nil, &schemas); err != nil {
		return nil, err
	}
	return schemas, nil
}

// GetSchema fetches one schema with its current fields.
func (c *Client) GetSchema(ctx context.Context, auth session.AuthContext, schemaID string) (any, error) {
	var schema any
	if err := c.do(ctx, "get schema", http.MethodGet, "/graphql/v1/schemas/"+schemaID, nil, &auth, nil, &schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// UpdateSchemaFields replaces a schema's field list. fields must be the
// complete set (existing plus new); the endpoint treats it as authoritative.
func (c *Client) UpdateSchemaFields(ctx context.Context, auth session.AuthContext, schemaID string, fields []any) (Result, error) {
	payload := map[string]any{
		"fields":                 fields,
		"schemaDefinitionItemId": schemaID,
		"deletableFieldNames":    []string{},
	}

	var result Result
	if err := c.do(ctx, "update schema fields", http.MethodPost, "/graphql/v1/schemas/fields", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DefaultGatewayConfig is the data-gateway configuration the console applies
// when none is given.
func (c *Client) DefaultGatewayConfig(projectKey string) map[string]any {
	return map[string]any{
		"enableDataGateway":           true,
		"gatewayEndpoint":             c.baseURL + "/graphql/v1/" + projectKey,
		"enableRealTimeSubscriptions": true,
	}
}

// ConfigureDataGateway enables the GraphQL data gateway for a project.
func (c *Client) ConfigureDataGateway(ctx context.Context, auth session.AuthContext, projectKey string, gatewayConfig map[string]any) (Result, error) {
	if gatewayConfig == nil {
		gatewayConfig = c.DefaultGatewayConfig(projectKey)
	}
	payload := map[string]any{"projectKey": projectKey}
	for k, v := range gatewayConfig {
		payload[k] = v
	}

	var result Result
	if err := c.do(ctx, "configure data gateway", http.MethodPost, "/graphql/v1/configurations", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}
