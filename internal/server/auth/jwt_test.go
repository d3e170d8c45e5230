package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("alice", secret, time.Hour)
	require.NoError(t, err)

	got, err := GetUsernameFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestGetUsernameFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("u1", secret, -1*time.Second)
	require.NoError(t, err)

	_, err = GetUsernameFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetUsernameFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = GetUsernameFromToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetUsernameFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetUsernameFromToken("not.a.jwt", []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetUsernameFromToken_WrongMethod(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Username: "x"}).SignedString(secret)
	require.NoError(t, err)

	_, err = GetUsernameFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetUsernameFromToken_NoUsername(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString(secret)
	require.NoError(t, err)

	_, err = GetUsernameFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
