package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/finflow-go/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:         "access-secret-for-tests",
		RefreshSecret:        "refresh-secret-for-tests",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 168 * time.Hour,
	}
}

func TestIssuePairAndVerify(t *testing.T) {
	ts := NewTokenService(testAuthConfig())

	pair, err := ts.IssuePair(42, "jane")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Greater(t, pair.ExpiresIn, int64(0))

	claims, err := ts.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "jane", claims.Username)

	claims, err = ts.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
}

// Claim timestamps have second precision, so uniqueness must come from the
// jti: two pairs issued back to back may not collide, or rotating a refresh
// token would hand back the very token it was meant to retire.
func TestIssuePairTokensAreUnique(t *testing.T) {
	ts := NewTokenService(testAuthConfig())

	first, err := ts.IssuePair(42, "jane")
	require.NoError(t, err)
	second, err := ts.IssuePair(42, "jane")
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	ts := NewTokenService(testAuthConfig())

	pair, err := ts.IssuePair(7, "u")
	require.NoError(t, err)

	// An access token must not pass refresh verification, and vice versa.
	// The secrets differ, so the signature check alone rejects the swap.
	_, err = ts.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ts.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTypeConfusionUnderSharedSecret(t *testing.T) {
	// Even with equal secrets (a misconfiguration the config loader
	// rejects), the token_type claim still blocks the swap.
	cfg := testAuthConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	ts := NewTokenService(cfg)

	pair, err := ts.IssuePair(7, "u")
	require.NoError(t, err)

	_, err = ts.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	ts := NewTokenService(testAuthConfig())
	pair, err := ts.IssuePair(7, "u")
	require.NoError(t, err)

	other := testAuthConfig()
	other.AccessSecret = "a-different-secret"
	otherTS := NewTokenService(other)

	_, err = otherTS.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTokenDuration = -time.Minute
	ts := NewTokenService(cfg)

	pair, err := ts.IssuePair(7, "u")
	require.NoError(t, err)

	_, err = ts.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	ts := NewTokenService(testAuthConfig())

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := ts.VerifyAccess(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("some-refresh-token")
	h2 := HashToken("some-refresh-token")
	h3 := HashToken("another-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	// Hex SHA-256 digest, which is what the users.refresh_token_hash
	// column is sized for.
	assert.Len(t, h1, 64)
	assert.NotContains(t, h1, "some-refresh-token")
}
