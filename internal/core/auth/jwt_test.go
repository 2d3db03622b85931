package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/core/auth"
)

func TestJWTIssueAndParse(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "bookstore-test", TTL: 15 * time.Minute}

	tok, err := j.Issue("user-1", "admin")
	require.NoError(t, err)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "bookstore-test", claims.Issuer)
}

func TestJWTRejectsExpired(t *testing.T) {
	// 负 TTL 要大过 60s 的解析宽限
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "bookstore-test", TTL: -2 * time.Minute}

	tok, err := j.Issue("user-1", "user")
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.Error(t, err)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := &auth.JWTer{Secret: []byte("secret-a"), Issuer: "bookstore-test", TTL: 15 * time.Minute}
	parser := &auth.JWTer{Secret: []byte("secret-b"), Issuer: "bookstore-test", TTL: 15 * time.Minute}

	tok, err := issuer.Issue("user-1", "user")
	require.NoError(t, err)

	_, err = parser.Parse(tok)
	assert.Error(t, err)
}

func TestJWTRejectsWrongIssuer(t *testing.T) {
	issuer := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: 15 * time.Minute}
	parser := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "bookstore-test", TTL: 15 * time.Minute}

	tok, err := issuer.Issue("user-1", "user")
	require.NoError(t, err)

	_, err = parser.Parse(tok)
	assert.Error(t, err)
}

func TestNewRefreshTokenIsOpaqueHex(t *testing.T) {
	a, err := auth.NewRefreshToken()
	require.NoError(t, err)
	b, err := auth.NewRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
