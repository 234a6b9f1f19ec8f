package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueToken_EmailClaimAndScheme(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), 30*time.Minute)

	tokenString, scheme, err := issuer.IssueToken("ann@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Equal(t, "bearer", scheme)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	assert.Equal(t, "ann@x.com", claims.Email)
}

func TestIssueToken_ExpirySetToValidityWindow(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), 30*time.Minute)

	tokenString, _, err := issuer.IssueToken("ann@x.com")
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)

	want := time.Now().Add(30 * time.Minute)
	assert.WithinDuration(t, want, claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueToken_RejectedWithWrongKey(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), time.Minute)

	tokenString, _, err := issuer.IssueToken("ann@x.com")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	assert.Error(t, err)
}
