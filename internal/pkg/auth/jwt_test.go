// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/tduong196/bookstore/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "Bookstore API"
	cfg.JWT.Secret = "test-secret-key-with-at-least-32-chars!"
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.RefreshTokenExpiry = 7 * 24 * time.Hour
	cfg.Security.BcryptCost = 4 // minimum cost keeps tests fast
	return cfg
}

func TestAccessTokenRoundtrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(42, "reader@bookstore.local", true)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Email != "reader@bookstore.local" {
		t.Errorf("unexpected email: %s", claims.Email)
	}
	if !claims.IsAdmin {
		t.Error("expected admin claim to survive the roundtrip")
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("expected access token type, got %s", claims.TokenType)
	}
}

func TestRefreshTokenNeverCarriesAdmin(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateRefreshToken(42, "admin@bookstore.local")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.IsAdmin {
		t.Error("refresh tokens must not carry admin status")
	}
}

func TestTokenTypeMismatchRejected(t *testing.T) {
	manager := NewJWTManager(testConfig())

	access, _ := manager.GenerateAccessToken(1, "a@b.c", false)
	refresh, _ := manager.GenerateRefreshToken(1, "a@b.c")

	if _, err := manager.ValidateRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
	if _, err := manager.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, _ := manager.GenerateAccessToken(1, "a@b.c", false)

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "a-completely-different-32-char-secret!!"
	other := NewJWTManager(otherCfg)

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc.def.ghi", ""},
		{"Basic dXNlcjpwYXNz", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractTokenFromHeader(tt.header); got != tt.want {
			t.Errorf("ExtractTokenFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
