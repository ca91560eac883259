package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	raw := signedToken(t, jwt.MapClaims{
		"sub":       "user-123",
		"email":     "dev@example.com",
		"name":      "Dev User",
		"iss":       "https://api.seliseblocks.com",
		"tenant_id": "proj-1",
		"exp":       exp.Unix(),
	})

	claims, err := ParseClaims(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, "Dev User", claims.Name)
	assert.Equal(t, "https://api.seliseblocks.com", claims.Issuer)
	assert.Equal(t, "proj-1", claims.TenantID)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestParseClaimsTenantAliases(t *testing.T) {
	for _, key := range []string{"tenant_id", "tenantId", "tid"} {
		raw := signedToken(t, jwt.MapClaims{key: "proj-9"})
		claims, err := ParseClaims(raw)
		require.NoError(t, err, key)
		assert.Equal(t, "proj-9", claims.TenantID, key)
	}
}

func TestParseClaimsExpiredTokenStillDecodes(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	claims, err := ParseClaims(raw)
	require.NoError(t, err, "claims are inspected locally, expiry must not block decoding")
	assert.Equal(t, "user-123", claims.Subject)
}

func TestParseClaimsRejectsGarbage(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	assert.Error(t, err)
}
