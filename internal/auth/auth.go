// Package auth defines the opaque token-verification contract the API
// consumes. The identity provider behind it is a black box: a bearer token
// goes in, decoded claims or a failure come out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// Claims is the decoded identity of an authenticated caller.
type Claims struct {
	Subject string
	Email   string
	Name    string
}

// Verifier checks a raw bearer token and returns the caller's claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// ErrNoBearerToken is returned when the Authorization header is missing or
// not of the Bearer scheme.
var ErrNoBearerToken = errors.New("missing bearer token")

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrNoBearerToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", ErrNoBearerToken
	}
	return token, nil
}

// GoogleVerifier validates Google-issued ID tokens against a fixed audience.
type GoogleVerifier struct {
	audience string
}

// NewGoogleVerifier creates a verifier for the given OAuth audience.
func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{audience: audience}
}

// Verify validates the token's signature, expiry and audience.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	claims := &Claims{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		claims.Name = name
	}
	return claims, nil
}

type contextKey string

const claimsKey contextKey = "authClaims"

// WithClaims attaches verified claims to the request context.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// FromContext returns the verified claims, or nil for unauthenticated
// requests.
func FromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}
