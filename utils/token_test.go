package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, []string{"User", "TourGuide"})
	require.NoError(t, err)

	id, roles, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, []string{"User", "TourGuide"}, roles)
}

func TestParseAccessToken_RejectsGarbage(t *testing.T) {
	_, _, err := ParseAccessToken("not-a-token")
	require.Error(t, err)
}

func TestParseAccessToken_RejectsWrongSignature(t *testing.T) {
	claims := jwt.MapClaims{"sub": "42"}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, _, err = ParseAccessToken(signed)
	require.Error(t, err)
}

func TestParseAccessToken_RejectsMissingSubject(t *testing.T) {
	claims := jwt.MapClaims{"roles": []string{"User"}}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(EnvOrDefault("JWT_SECRET", "dev-secret-change-me")))
	require.NoError(t, err)

	_, _, err = ParseAccessToken(signed)
	require.Error(t, err)
}
