package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("u-1", secret, time.Minute)
	require.NoError(t, err)

	userID, err := GetUserIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
}

func TestGetUserIDFromToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("u-1", secret, time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, []byte("other-secret"))
	require.Error(t, err)
}

func TestGetUserIDFromToken_Expired(t *testing.T) {
	token, err := GenerateToken("u-1", secret, -time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, secret)
	require.Error(t, err)
}

func makeFederated(t *testing.T, claims FederatedClaims, key []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestVerifyFederatedToken(t *testing.T) {
	s := makeFederated(t, FederatedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:   "a@x.com",
		Name:    "Alice",
		Picture: "https://img/a.png",
	}, secret)

	claims, err := VerifyFederatedToken(s, secret)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestVerifyFederatedToken_MissingEmail(t *testing.T) {
	s := makeFederated(t, FederatedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, secret)

	_, err := VerifyFederatedToken(s, secret)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerifyFederatedToken_BadSignature(t *testing.T) {
	s := makeFederated(t, FederatedClaims{Email: "a@x.com"}, []byte("rogue"))

	_, err := VerifyFederatedToken(s, secret)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}
