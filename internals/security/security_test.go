package security

import (
	"testing"
	"time"

	"pulsewatch/config"
	"pulsewatch/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signToken mints an HS256 token the way the identity service does.
func signToken(t *testing.T, secret string, claims RequestClaims, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.IssuedAt = jwt.NewNumericDate(now)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := NewTokenService(&config.AuthConfig{Secret: "a-very-long-signing-secret"})

	tok := signToken(t, "a-very-long-signing-secret", RequestClaims{
		UserID: "3f0c2f64-5a1d-4a8e-9c55-0b7f4e1d9a10",
		Email:  "ops@example.com",
		OrgID:  "9a3e1f11-2b44-4c0e-8d7a-6f5e4d3c2b1a",
	}, time.Minute)

	claims, err := ts.ValidateAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "9a3e1f11-2b44-4c0e-8d7a-6f5e4d3c2b1a", claims.OrgID)
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	ts := NewTokenService(&config.AuthConfig{Secret: "a-very-long-signing-secret"})

	foreign := signToken(t, "another-long-signing-secret", RequestClaims{UserID: "u", Email: "e"}, time.Minute)
	expired := signToken(t, "a-very-long-signing-secret", RequestClaims{UserID: "u", Email: "e"}, -time.Minute)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, RequestClaims{UserID: "u"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":  "not-a-jwt",
		"foreign":  foreign,
		"expired":  expired,
		"alg none": none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ts.ValidateAccessToken(tok)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.Unauthorised))
		})
	}
}

func TestAPIKeyHash(t *testing.T) {
	hash, err := HashAPIKey("s3cret-internal-key")
	require.NoError(t, err)

	ok, err := VerifyAPIKey("s3cret-internal-key", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyAPIKey("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}
