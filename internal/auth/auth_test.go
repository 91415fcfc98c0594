package auth

import (
	"strings"
	"testing"

	"amplifyd_backend/internal/config"
	"amplifyd_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60
	m.Run()
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", models.UserRoleReviewer)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.UserRoleReviewer, claims.Role)
	assert.Equal(t, "amplifyd", claims.Issuer)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", models.UserRoleArtist)
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "other-secret"
	defer func() { config.AppConfig.JWT.Secret = "test-secret" }()

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateOpaqueTokenIsUnique(t *testing.T) {
	a, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	b, err := GenerateOpaqueToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}

func TestGenerateOpaqueTokenEnforcesMinimumEntropy(t *testing.T) {
	token, err := GenerateOpaqueToken(1)
	require.NoError(t, err)
	// 20 bytes base64url-encoded without padding
	assert.GreaterOrEqual(t, len(token), 27)
}

func TestGenerateReferralCodeFormat(t *testing.T) {
	code, err := GenerateReferralCode()
	require.NoError(t, err)

	require.Len(t, code, 11)
	assert.Equal(t, byte('-'), code[5])
	for _, r := range strings.ReplaceAll(code, "-", "") {
		assert.Contains(t, referralAlphabet, string(r))
	}
	assert.NotContains(t, code, "O")
	assert.NotContains(t, code, "0")
	assert.NotContains(t, code, "I")
	assert.NotContains(t, code, "1")
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse-7")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct-horse-7", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("longenough"))
}
