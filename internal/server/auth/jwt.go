// Package auth issues the signed bearer tokens returned by a successful
// login. Token verification/parsing belongs to the transport layer and is
// not implemented here.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenScheme tells the client how to present the token on subsequent
// requests.
const TokenScheme = "bearer"

// Claims includes the registered claims plus the authenticated account email.
type Claims struct {
	jwt.RegisteredClaims
	Email string
}

// Issuer signs bearer tokens with a symmetric key fixed for the process
// lifetime.
type Issuer struct {
	secretKey        []byte
	validityDuration time.Duration
}

// NewIssuer constructs an Issuer. The key is injected here once at startup
// and never rotated.
func NewIssuer(secretKey []byte, validityDuration time.Duration) *Issuer {
	return &Issuer{secretKey: secretKey, validityDuration: validityDuration}
}

// IssueToken signs an HS256 token asserting the given email with an absolute
// expiry of now + validity. It returns the compact token string together
// with the scheme literal.
func (i *Issuer) IssueToken(email string) (string, string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.validityDuration)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", "", err
	}

	return tokenString, TokenScheme, nil
}
