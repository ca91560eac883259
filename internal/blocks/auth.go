package blocks

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// expiryMargin is subtracted from expires_in so a token is retired before the
// server would reject it mid-call.
const expiryMargin = 5 * time.Minute

// tokenResponse is the OAuth token endpoint answer.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func (t tokenResponse) toToken(now time.Time) *oauth2.Token {
	expiresIn := t.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 8000
	}
	typ := t.TokenType
	if typ == "" {
		typ = "bearer"
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    typ,
		Expiry:       now.Add(time.Duration(expiresIn)*time.Second - expiryMargin),
	}
}

// Login performs the password-grant login and returns the margin-adjusted
// token.
func (c *Client) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	var resp tokenResponse
	if err := c.postForm(ctx, "login", "/authentication/v1/OAuth/Token", form, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login: no access token in response")
	}
	return resp.toToken(time.Now()), nil
}

// RefreshToken exchanges a refresh token for a new access token. It satisfies
// session.Refresher.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	var resp tokenResponse
	if err := c.postForm(ctx, "refresh token", "/authentication/v1/OAuth/Token", form, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("refresh token: no access token in response")
	}
	tok := resp.toToken(time.Now())
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}
