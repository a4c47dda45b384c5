// Package jwt verifies Clerk session tokens.
package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the session claims issued by Clerk. The optional fields come
// from the session token template.
type Claims struct {
	jwt.RegisteredClaims
	Email     string                 `json:"email,omitempty"`
	Username  string                 `json:"username,omitempty"`
	FirstName string                 `json:"first_name,omitempty"`
	LastName  string                 `json:"last_name,omitempty"`
	ImageURL  string                 `json:"image_url,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// IsAdmin reads metadata.isAdmin, accepting a bool or the string "true".
func (c *Claims) IsAdmin() bool {
	switch v := c.Metadata["isAdmin"].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

type Verifier struct {
	key    *rsa.PublicKey
	leeway time.Duration
}

// NewVerifier parses the PEM encoded RSA public key shown in the Clerk
// dashboard as the JWT verification key.
func NewVerifier(pemKey string) (*Verifier, error) {
	// env files often carry the key on one line with literal \n
	pemKey = strings.ReplaceAll(pemKey, `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse clerk jwt key: %w", err)
	}
	return NewVerifierFromKey(key), nil
}

func NewVerifierFromKey(key *rsa.PublicKey) *Verifier {
	return &Verifier{key: key, leeway: 5 * time.Second}
}

func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.key, nil
	}, jwt.WithLeeway(v.leeway), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
