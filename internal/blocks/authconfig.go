package blocks

import (
	"context"
	"net/http"
	"net/url"

	"github.com/seliseblocks/blocks-mcp/internal/session"
)

// AuthConfigInput is the authentication configuration update. The defaults
// match the console's social-login activation flow.
type AuthConfigInput struct {
	ItemID               string
	ProjectKey           string
	RefreshTokenMinutes  int
	AccessTokenMinutes   int
	RememberMeMinutes    int
	AllowedGrantTypes    []string
	WrongAttemptsLock    int
	LockDurationMinutes  int
}

func (in AuthConfigInput) withDefaults() AuthConfigInput {
	if in.RefreshTokenMinutes == 0 {
		in.RefreshTokenMinutes = 300
	}
	if in.AccessTokenMinutes == 0 {
		in.AccessTokenMinutes = 15
	}
	if in.RememberMeMinutes == 0 {
		in.RememberMeMinutes = 43200
	}
	if in.AllowedGrantTypes == nil {
		in.AllowedGrantTypes = []string{"password", "refresh_token", "social"}
	}
	if in.WrongAttemptsLock == 0 {
		in.WrongAttemptsLock = 5
	}
	if in.LockDurationMinutes == 0 {
		in.LockDurationMinutes = 5
	}
	return in
}

// UpdateAuthConfig updates a project's authentication configuration.
func (c *Client) UpdateAuthConfig(ctx context.Context, auth session.AuthContext, in AuthConfigInput) (Result, error) {
	in = in.withDefaults()
	payload := map[string]any{
		"itemId":                                      in.ItemID,
		"refreshTokenValidForNumberMinutes":           in.RefreshTokenMinutes,
		"accessTokenValidForNumberMinutes":            in.AccessTokenMinutes,
		"rememberMeRefreshTokenValidForNumberMinutes": in.RememberMeMinutes,
		"allowedGrantTypes":                           in.AllowedGrantTypes,
		"getNumberOfWrongAttemptsToLockTheAccount":    in.WrongAttemptsLock,
		"accountLockDurationInMinutes":                in.LockDurationMinutes,
		"projectKey":                                  in.ProjectKey,
	}

	var result Result
	if err := c.do(ctx, "update auth config", http.MethodPost, "/authentication/v1/Configuration/Update", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAuthConfig fetches a project's authentication configuration.
func (c *Client) GetAuthConfig(ctx context.Context, auth session.AuthContext, projectKey string) (any, error) {
	query := url.Values{}
	query.Set("ProjectKey", projectKey)

	var config any
	if err := c.do(ctx, "get auth config", http.MethodGet, "/authentication/v1/Configuration/Get", query, &auth, nil, &config); err != nil {
		return nil, err
	}
	return config, nil
}

// SSOCredentialInput registers an OAuth provider for social login.
type SSOCredentialInput struct {
	ProjectKey   string
	Provider     string
	ClientID     string
	ClientSecret string
	IsEnable     bool
	RedirectURI  string
}

// SaveSSOCredential stores the OAuth client credentials of a social provider.
func (c *Client) SaveSSOCredential(ctx context.Context, auth session.AuthContext, in SSOCredentialInput) (Result, error) {
	payload := map[string]any{
		"projectKey":   in.ProjectKey,
		"provider":     in.Provider,
		"clientId":     in.ClientID,
		"clientSecret": in.ClientSecret,
		"isEnable":     in.IsEnable,
		"redirectUri":  in.RedirectURI,
	}

	var result Result
	if err := c.do(ctx, "save sso credential", http.MethodPost, "/authentication/v1/Social/SaveSsoCredential", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// MFA type codes used by the platform.
const (
	MFATypeAuthenticator = 1
	MFATypeEmail         = 2
)

// SaveMFAConfig enables (or disables) MFA with the given type codes.
func (c *Client) SaveMFAConfig(ctx context.Context, auth session.AuthContext, projectKey string, enable bool, userMfaTypes []int) (Result, error) {
	payload := map[string]any{
		"projectKey":  projectKey,
		"enableMfa":   enable,
		"userMfaType": userMfaTypes,
	}

	var result Result
	if err := c.do(ctx, "save mfa config", http.MethodPost, "/mfa/v1/Configuration/Save", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}
