package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const testIssuer = "https://auth.example.com"

type signingEnv struct {
	key     jwk.Key
	jwksURL string
}

// newSigningEnv generates an RSA key and serves its public half from a
// fake JWKS endpoint.
func newSigningEnv(t *testing.T) *signingEnv {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	key, err := jwk.FromRaw(raw)
	if err != nil {
		t.Fatalf("wrapping key: %v", err)
	}
	if err := key.Set(jwk.KeyIDKey, "test-key"); err != nil {
		t.Fatalf("setting kid: %v", err)
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		t.Fatalf("setting alg: %v", err)
	}

	pub, err := jwk.PublicKeyOf(key)
	if err != nil {
		t.Fatalf("deriving public key: %v", err)
	}
	set := jwk.NewSet()
	if err := set.AddKey(pub); err != nil {
		t.Fatalf("adding key to set: %v", err)
	}

	body, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshaling JWKS: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return &signingEnv{key: key, jwksURL: srv.URL}
}

func (e *signingEnv) sign(t *testing.T, build func(b *jwt.Builder)) string {
	t.Helper()

	b := jwt.NewBuilder().
		Issuer(testIssuer).
		Subject("user-123").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour)).
		Claim("email", "user@example.com").
		Claim("name", "Test User")
	if build != nil {
		build(b)
	}

	token, err := b.Build()
	if err != nil {
		t.Fatalf("building token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256, e.key))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return string(signed)
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	env := newSigningEnv(t)
	verifier := NewVerifier(NewJWKSManager(), testIssuer, "")

	claims, err := verifier.Verify(context.Background(), env.sign(t, nil), env.jwksURL)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if claims.Sub != "user-123" {
		t.Errorf("Sub = %q, want user-123", claims.Sub)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", claims.Email)
	}
	if claims.Name != "Test User" {
		t.Errorf("Name = %q, want Test User", claims.Name)
	}
	if claims.Iss != testIssuer {
		t.Errorf("Iss = %q, want %q", claims.Iss, testIssuer)
	}
	if claims.Iat == 0 {
		t.Error("Iat was not extracted")
	}
	if claims.Exp <= claims.Iat {
		t.Errorf("Exp = %d, want later than Iat %d", claims.Exp, claims.Iat)
	}
}

func TestVerifier_Verify_IssuerMismatch(t *testing.T) {
	t.Parallel()

	env := newSigningEnv(t)
	verifier := NewVerifier(NewJWKSManager(), "https://other.example.com", "")

	if _, err := verifier.Verify(context.Background(), env.sign(t, nil), env.jwksURL); err == nil {
		t.Error("expected error for issuer mismatch")
	}
}

func TestVerifier_Verify_Expired(t *testing.T) {
	t.Parallel()

	env := newSigningEnv(t)
	verifier := NewVerifier(NewJWKSManager(), testIssuer, "")

	expired := env.sign(t, func(b *jwt.Builder) {
		b.Expiration(time.Now().Add(-time.Hour))
	})
	if _, err := verifier.Verify(context.Background(), expired, env.jwksURL); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerifier_Verify_AudienceEnforced(t *testing.T) {
	t.Parallel()

	env := newSigningEnv(t)
	verifier := NewVerifier(NewJWKSManager(), testIssuer, "tracker-api")

	withAud := env.sign(t, func(b *jwt.Builder) {
		b.Audience([]string{"tracker-api"})
	})
	claims, err := verifier.Verify(context.Background(), withAud, env.jwksURL)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Aud != "tracker-api" {
		t.Errorf("Aud = %q, want tracker-api", claims.Aud)
	}

	wrongAud := env.sign(t, func(b *jwt.Builder) {
		b.Audience([]string{"someone-else"})
	})
	if _, err := verifier.Verify(context.Background(), wrongAud, env.jwksURL); err == nil {
		t.Error("expected error for audience mismatch")
	}
}

func TestVerifier_Verify_Garbage(t *testing.T) {
	t.Parallel()

	env := newSigningEnv(t)
	verifier := NewVerifier(NewJWKSManager(), testIssuer, "")

	if _, err := verifier.Verify(context.Background(), "not-a-token", env.jwksURL); err == nil {
		t.Error("expected error for malformed token")
	}
}
