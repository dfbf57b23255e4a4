package auth

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/enablementhq/tracker-api/internal/models"
)

// Verifier verifies JWT tokens
type Verifier struct {
	jwksManager *JWKSManager
	issuer      string
	audience    string
}

// NewVerifier creates a new JWT verifier. audience may be empty to skip
// the audience check.
func NewVerifier(jwksManager *JWKSManager, issuer, audience string) *Verifier {
	return &Verifier{
		jwksManager: jwksManager,
		issuer:      issuer,
		audience:    audience,
	}
}

// Verify verifies a JWT token and extracts claims
func (v *Verifier) Verify(ctx context.Context, tokenString string, jwksURL string) (*models.JWTClaims, error) {
	keys, err := v.jwksManager.GetJWKS(ctx, jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	options := []jwt.ParseOption{jwt.WithKeySet(keys), jwt.WithValidate(true)}
	if v.audience != "" {
		options = append(options, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse([]byte(tokenString), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	if token.Issuer() == "" {
		return nil, fmt.Errorf("token missing issuer claim")
	}
	if token.Issuer() != v.issuer {
		return nil, fmt.Errorf("token issuer mismatch: expected %s, got %s", v.issuer, token.Issuer())
	}

	claims := &models.JWTClaims{
		Sub: token.Subject(),
		Iss: v.issuer,
	}

	if email, ok := token.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}

	if name, ok := token.Get("name"); ok {
		if nameStr, ok := name.(string); ok {
			claims.Name = nameStr
		}
	}

	if !token.Expiration().IsZero() {
		claims.Exp = token.Expiration().Unix()
	}

	if !token.IssuedAt().IsZero() {
		claims.Iat = token.IssuedAt().Unix()
	}

	if aud := token.Audience(); len(aud) > 0 {
		claims.Aud = aud[0]
	}

	return claims, nil
}
