// ABOUTME: Unit tests for JWT token issuance and verification
// ABOUTME: Covers valid tokens, expiry, wrong key, malformed input, and missing subject

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTestSecret is a 32-byte secret that meets MinSecretLength.
var tokenTestSecret = []byte("token-test-secret-exactly-32-by!")

func newTestVerifier(t *testing.T) *JWTVerifier {
	t.Helper()
	verifier, err := NewJWTVerifier(tokenTestSecret)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}
	return verifier
}

func TestNewJWTVerifier_ShortSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret []byte
	}{
		{name: "empty secret", secret: nil},
		{name: "short secret", secret: []byte("too-short")},
		{name: "31 bytes", secret: []byte("a-secret-that-is-31-bytes-long!")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJWTVerifier(tt.secret)
			if !errors.Is(err, ErrSecretTooShort) {
				t.Errorf("NewJWTVerifier() error = %v, want ErrSecretTooShort", err)
			}
		})
	}
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	verifier := newTestVerifier(t)

	subject := "admin"
	token, err := verifier.Generate(subject, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	got, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != subject {
		t.Errorf("Verify() = %q, want %q", got, subject)
	}
}

func TestJWTVerifier_SubjectUnmodified(t *testing.T) {
	verifier := newTestVerifier(t)

	// Subject must come back byte-for-byte, no normalization
	subject := "Admин.User+tag@Example"
	token, err := verifier.Generate(subject, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != subject {
		t.Errorf("Verify() = %q, want %q", got, subject)
	}
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.Generate("admin", -time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTVerifier_WrongKey(t *testing.T) {
	verifier := newTestVerifier(t)

	other, err := NewJWTVerifier([]byte("a-different-secret-also-32-bytes"))
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}
	token, err := other.Generate("admin", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify() error = %v, want ErrBadSignature", err)
	}
}

func TestJWTVerifier_MalformedToken(t *testing.T) {
	verifier := newTestVerifier(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-jwt-token"},
		{name: "wrong segment count", token: "only.two"},
		{name: "undecodable segments", token: "header.payload.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if !errors.Is(err, ErrMalformedToken) {
				t.Errorf("Verify() error = %v, want ErrMalformedToken", err)
			}
		})
	}
}

func TestJWTVerifier_MissingSubject(t *testing.T) {
	verifier := newTestVerifier(t)

	// Sign a claim set without "sub" using the same key
	claims := jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenTestSecret)
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrMissingSubject) {
		t.Errorf("Verify() error = %v, want ErrMissingSubject", err)
	}
}

func TestJWTVerifier_MissingExpiry(t *testing.T) {
	verifier := newTestVerifier(t)

	// Tokens without an expiry claim are never valid
	claims := jwt.MapClaims{
		"sub": "admin",
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenTestSecret)
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("Verify() should reject a token without an exp claim")
	}
}

func TestJWTVerifier_RejectsNonHMACAlgorithm(t *testing.T) {
	verifier := newTestVerifier(t)

	// alg=none with an empty signature must not verify
	claims := jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("Verify() should reject an unsigned token")
	}
}
