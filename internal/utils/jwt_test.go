package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 42, "STUDENT", 30)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(tok.Exp) <= 0 {
		t.Errorf("expiry %s not in the future", tok.Exp)
	}

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if sub, ok := claims["sub"].(float64); !ok || uint64(sub) != 42 {
		t.Errorf("sub=%v, want 42", claims["sub"])
	}
	if claims["role"] != "STUDENT" {
		t.Errorf("role=%v, want STUDENT", claims["role"])
	}
}

func TestNewAccessTokenWrongSecretRejected(t *testing.T) {
	tok, err := NewAccessToken("right", 1, "ADMIN", 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	if err == nil && parsed.Valid {
		t.Error("token validated with the wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	a, err := NewRefreshToken(14)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	b, err := NewRefreshToken(14)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a.Raw == b.Raw {
		t.Error("two refresh tokens collided")
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) {
		t.Error("hash is not deterministic")
	}
	if HashRefreshRaw(a.Raw) == HashRefreshRaw(b.Raw) {
		t.Error("hashes of distinct tokens collided")
	}
}
