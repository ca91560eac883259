package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of the Blocks access-token claims surfaced to
// status tools. The token is issued by the platform and only inspected
// locally, so it is decoded without signature verification.
type TokenClaims struct {
	Subject   string
	Email     string
	Name      string
	Issuer    string
	TenantID  string
	ExpiresAt time.Time
}

// ParseClaims decodes the claims of a Blocks access token.
func ParseClaims(accessToken string) (*TokenClaims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	out := &TokenClaims{
		Subject: stringClaim(claims, "sub"),
		Email:   stringClaim(claims, "email"),
		Name:    stringClaim(claims, "name"),
		Issuer:  stringClaim(claims, "iss"),
	}
	// The platform scopes tokens to a tenant; the claim name differs between
	// token versions.
	for _, key := range []string{"tenant_id", "tenantId", "tid"} {
		if v := stringClaim(claims, key); v != "" {
			out.TenantID = v
			break
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
