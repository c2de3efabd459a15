package jwtutil

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("test-secret", time.Hour, 42, "alice")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want %q", claims.Username, "alice")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("secret-a", time.Hour, 1, "bob")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("ParseToken() with wrong secret returned nil error")
	}
}

func TestParseTokenExpired(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("test-secret", -time.Minute, 1, "bob")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if _, err := ParseToken("test-secret", token); err == nil {
		t.Error("ParseToken() on expired token returned nil error")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken("test-secret", "not-a-token"); err == nil {
		t.Error("ParseToken() on garbage returned nil error")
	}
}
