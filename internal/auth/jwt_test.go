package auth

import (
	"testing"
	"time"
)

func testManager() *Manager {
	return &Manager{
		Secret:     []byte("test-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Issuer:     "digital-invest-backend",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := testManager()
	token, err := m.NewAccessToken("user-1", "editor")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Role != "editor" {
		t.Fatalf("role = %q, want editor", claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("token type = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
}

func TestTokenTypesDiffer(t *testing.T) {
	m := testManager()

	refresh, err := m.NewRefreshToken("user-1", "admin")
	if err != nil {
		t.Fatalf("NewRefreshToken error: %v", err)
	}
	claims, err := m.Parse(refresh)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Fatalf("token type = %q, want %q", claims.TokenType, TokenTypeRefresh)
	}

	access, err := m.NewAccessToken("user-1", "admin")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	claims, err = m.Parse(access)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.TokenType == TokenTypeRefresh {
		t.Fatal("access token must not carry the refresh type")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := testManager()
	token, err := m.NewAccessToken("user-1", "admin")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	other := testManager()
	other.Secret = []byte("different-secret")
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := testManager()
	m.AccessTTL = -time.Minute
	token, err := m.NewAccessToken("user-1", "viewer")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected parse to fail for expired token")
	}
}
