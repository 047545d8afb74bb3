package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by providers for any token they refuse.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity token claims this service relies on.
type Claims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
	jwt.RegisteredClaims
}

// IdentityProvider verifies an opaque bearer token and returns its claims.
type IdentityProvider interface {
	VerifyToken(ctx context.Context, token string) (*Claims, error)
}

// JWTProvider verifies HMAC-signed identity tokens locally with a shared secret.
type JWTProvider struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTProvider builds a provider for HS256 tokens. Issuer and audience are
// enforced only when non-empty.
func NewJWTProvider(secret, issuer, audience string) (*JWTProvider, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &JWTProvider{secret: []byte(secret), parser: jwt.NewParser(opts...)}, nil
}

// VerifyToken checks signature, expiry, issuer and audience.
func (p *JWTProvider) VerifyToken(_ context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := p.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// StaticProvider resolves tokens from a fixed table. Used by tests and local
// development against the memory store.
type StaticProvider map[string]Claims

// VerifyToken returns a copy of the claims registered for token.
func (p StaticProvider) VerifyToken(_ context.Context, token string) (*Claims, error) {
	c, ok := p[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return &c, nil
}
