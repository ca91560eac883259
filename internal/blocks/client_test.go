package blocks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seliseblocks/blocks-mcp/internal/session"
)

func jsonDecode(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, BlocksKey: "test-key"})
}

func testAuth() session.AuthContext {
	return session.AuthContext{Token: "tok", TokenType: "bearer"}
}

func TestRequestCarriesConsoleHeaders(t *testing.T) {
	var got http.Header
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListProjects(context.Background(), testAuth(), ListProjectsInput{})
	require.NoError(t, err)

	assert.Equal(t, "test-key", got.Get("x-blocks-key"))
	assert.Equal(t, "https://cloud.seliseblocks.com", got.Get("Origin"))
	assert.Equal(t, "https://cloud.seliseblocks.com/", got.Get("Referer"))
	assert.Equal(t, "bearer tok", got.Get("Authorization"))
	assert.Equal(t, "empty", got.Get("sec-fetch-dest"))
	assert.NotEmpty(t, got.Get("x-request-id"))
}

func TestLogin(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/authentication/v1/OAuth/Token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("content-type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "dev@example.com", r.PostForm.Get("username"))
		assert.Equal(t, "hunter2", r.PostForm.Get("password"))

		_, _ = w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","expires_in":3600,"token_type":"bearer"}`))
	})

	before := time.Now()
	tok, err := client.Login(context.Background(), "dev@example.com", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "tok", tok.AccessToken)
	assert.Equal(t, "ref", tok.RefreshToken)
	assert.Equal(t, "bearer", tok.TokenType)

	// 3600s minus the 5 minute margin.
	wantExpiry := before.Add(3600*time.Second - 5*time.Minute)
	assert.WithinDuration(t, wantExpiry, tok.Expiry, 5*time.Second)
}

func TestLoginNoAccessToken(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := client.Login(context.Background(), "dev@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access token")
}

func TestRefreshTokenKeepsOldRefreshToken(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "ref-1", r.PostForm.Get("refresh_token"))
		_, _ = w.Write([]byte(`{"access_token":"tok-2","expires_in":3600}`))
	})

	tok, err := client.RefreshToken(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok.AccessToken)
	assert.Equal(t, "ref-1", tok.RefreshToken, "refresh token survives when the response omits it")
}

func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"insufficient permissions"}`))
	})

	_, err := client.ListRoles(context.Background(), testAuth(), ListRolesInput{ProjectKey: "proj-1"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "list roles", apiErr.Op)
	assert.Contains(t, apiErr.Body, "insufficient permissions")
}

func TestListProjects(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/identifier/v1/Project/Gets", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "group-1", r.URL.Query().Get("tenantGroupId"))

		_, _ = w.Write([]byte(`[
			{"tenantGroupId":"group-1","projects":[
				{"itemId":"item-1","name":"demo","tenantId":"proj-1","applicationDomain":"https://dev-demo.seliseblocks.com"}
			]}
		]`))
	})

	groups, err := client.ListProjects(context.Background(), testAuth(), ListProjectsInput{TenantGroupID: "group-1"})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Projects, 1)
	assert.Equal(t, "proj-1", groups[0].Projects[0].TenantID)
	assert.Equal(t, "https://dev-demo.seliseblocks.com", groups[0].Projects[0].ApplicationDomain)
}

func TestTenantForProject(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"tenantGroupId":"group-1","projects":[
				{"name":"other","tenantId":"proj-0"},
				{"name":"demo","tenantId":"proj-1"}
			]}
		]`))
	})

	tenant, err := client.TenantForProject(context.Background(), testAuth(), "group-1", "demo")
	require.NoError(t, err)
	assert.Equal(t, "proj-1", tenant)

	tenant, err = client.TenantForProject(context.Background(), testAuth(), "group-1", "missing")
	require.NoError(t, err)
	assert.Empty(t, tenant)
}

func TestApplicationDomainFallsBackToItemLookup(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/identifier/v1/Project/Gets":
			_, _ = w.Write([]byte(`[{"tenantGroupId":"group-1","projects":[{"itemId":"item-1","name":"demo","tenantId":"proj-1"}]}]`))
		case "/identifier/v1/Project/Get":
			assert.Equal(t, "item-1", r.URL.Query().Get("id"))
			_, _ = w.Write([]byte(`{"itemId":"item-1","applicationContexts":[
				{"environment":"prod","domain":"https://demo.seliseblocks.com"},
				{"environment":"dev","domain":"https://dev-demo.seliseblocks.com"}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	domain, err := client.ApplicationDomainForProject(context.Background(), testAuth(), "group-1", "demo")
	require.NoError(t, err)
	assert.Equal(t, "https://dev-demo.seliseblocks.com", domain, "dev environment wins")
}

func TestCreateSchemaPayloadAndPlainTextResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql/v1/schemas/info", r.URL.Path)
		var payload map[string]any
		require.NoError(t, jsonDecode(r, &payload))
		assert.Equal(t, "Task", payload["schemaName"])
		assert.Equal(t, "Tasks", payload["collectionName"])
		assert.Equal(t, float64(1), payload["schemaType"])
		assert.Equal(t, "proj-1", payload["projectKey"])

		w.Header().Set("content-type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	})

	result, err := client.CreateSchema(context.Background(), testAuth(), "Task", "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "Tasks", result.CollectionName)
	assert.Equal(t, "OK", result.Response)
}

func TestUpdateSchemaFieldsPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, jsonDecode(r, &payload))
		assert.Equal(t, "schema-1", payload["schemaDefinitionItemId"])
		assert.Equal(t, []any{}, payload["deletableFieldNames"])
		_, _ = w.Write([]byte(`{"isSuccess":true}`))
	})

	result, err := client.UpdateSchemaFields(context.Background(), testAuth(), "schema-1", []any{
		map[string]any{"fieldName": "title", "fieldType": "String"},
	})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
}

func TestResultSucceeded(t *testing.T) {
	assert.True(t, Result{"isSuccess": true}.Succeeded())
	assert.False(t, Result{"isSuccess": false}.Succeeded())
	assert.True(t, Result{"success": true}.Succeeded())
	assert.False(t, Result{"success": false}.Succeeded())
	assert.True(t, Result{}.Succeeded(), "no flag means the 2xx already decided")
}

func TestSaveCaptchaConfigRejectsUnknownProvider(t *testing.T) {
	client := New(Config{})
	_, err := client.SaveCaptchaConfig(context.Background(), testAuth(), CaptchaConfigInput{
		ProjectKey: "proj-1",
		Provider:   "turnstile",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid provider")
}

func TestSetRolePermissionsPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/iam/v1/Resource/SetRoles", r.URL.Path)
		var payload map[string]any
		require.NoError(t, jsonDecode(r, &payload))
		assert.Equal(t, []any{"perm-1"}, payload["addPermissions"])
		assert.Equal(t, []any{}, payload["removePermissions"])
		assert.Equal(t, "admin", payload["slug"])
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	result, err := client.SetRolePermissions(context.Background(), testAuth(), SetRolePermissionsInput{
		RoleSlug:       "admin",
		AddPermissions: []string{"perm-1"},
		ProjectKey:     "proj-1",
	})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
}

func TestDefaultGatewayConfig(t *testing.T) {
	client := New(Config{BaseURL: "https://api.example.com"})
	cfg := client.DefaultGatewayConfig("proj-1")
	assert.Equal(t, "https://api.example.com/graphql/v1/proj-1", cfg["gatewayEndpoint"])
	assert.Equal(t, true, cfg["enableDataGateway"])
}

func TestPermissionInputDefaults(t *testing.T) {
	payload := PermissionInput{Name: "read-tasks", ProjectKey: "proj-1"}.payload()
	assert.Equal(t, 3, payload["type"])
	assert.Equal(t, []string{}, payload["tags"])
	assert.Equal(t, []string{}, payload["dependentPermissions"])
	_, hasItem := payload["itemId"]
	assert.False(t, hasItem)

	payload = PermissionInput{ItemID: "perm-1", Type: 1}.payload()
	assert.Equal(t, "perm-1", payload["itemId"])
	assert.Equal(t, 1, payload["type"])
}
