package blocks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/seliseblocks/blocks-mcp/internal/session"
)

// Supported CAPTCHA providers.
const (
	CaptchaProviderRecaptcha = "recaptcha"
	CaptchaProviderHCaptcha  = "hcaptcha"
)

// ValidCaptchaProvider reports whether the provider is one the platform
// accepts.
func ValidCaptchaProvider(provider string) bool {
	return provider == CaptchaProviderRecaptcha || provider == CaptchaProviderHCaptcha
}

// CaptchaConfigInput stores a CAPTCHA provider configuration.
type CaptchaConfigInput struct {
	ProjectKey string
	Provider   string
	SiteKey    string
	SecretKey  string
	IsEnable   bool
}

// SaveCaptchaConfig stores a CAPTCHA configuration.
func (c *Client) SaveCaptchaConfig(ctx context.Context, auth session.AuthContext, in CaptchaConfigInput) (Result, error) {
	if !ValidCaptchaProvider(in.Provider) {
		return nil, fmt.Errorf("save captcha config: invalid provider %q, must be %q or %q", in.Provider, CaptchaProviderRecaptcha, CaptchaProviderHCaptcha)
	}
	payload := map[string]any{
		"projectKey":       in.ProjectKey,
		"isEnable":         in.IsEnable,
		"provider":         in.Provider,
		"captchaKey":       in.SiteKey,
		"captchaSecret":    in.SecretKey,
		"captchaGenerator": "",
	}

	var result Result
	if err := c.do(ctx, "save captcha config", http.MethodPost, "/captcha/v1/Configuration/Save", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCaptchaConfigs lists the CAPTCHA configurations of a project.
func (c *Client) ListCaptchaConfigs(ctx context.Context, auth session.AuthContext, projectKey string) (Result, error) {
	query := url.Values{}
	query.Set("ProjectKey", projectKey)

	var result Result
	if err := c.do(ctx, "list captcha configs", http.MethodGet, "/captcha/v1/Configuration/Gets", query, &auth, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Configurations extracts the configuration list out of a ListCaptchaConfigs
// result.
func (r Result) Configurations() []map[string]any {
	raw, ok := r["configurations"].([]any)
	if !ok {
		return nil
	}
	configs := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			configs = append(configs, m)
		}
	}
	return configs
}

// UpdateCaptchaStatus enables or disables one CAPTCHA configuration.
func (c *Client) UpdateCaptchaStatus(ctx context.Context, auth session.AuthContext, projectKey, itemID string, enable bool) (Result, error) {
	payload := map[string]any{
		"projectKey": projectKey,
		"isEnable":   enable,
		"itemId":     itemID,
	}

	var result Result
	if err := c.do(ctx, "update captcha status", http.MethodPost, "/captcha/v1/Configuration/UpdateStatus", nil, &auth, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}
