package auth_test

import (
	"testing"
	"time"

	"spotlike/config"
	"spotlike/internal/auth"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "spotlike-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := auth.GenerateAccessToken(cfg, 42, "12345")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := auth.ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.TelegramID != "12345" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := auth.GenerateAccessToken(cfg, 42, "12345")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	other := testJWTConfig()
	other.AccessSecret = "different"
	if _, err := auth.ParseAccessToken(other, token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	cfg.AccessExpiry = -time.Minute
	token, err := auth.GenerateAccessToken(cfg, 42, "12345")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := auth.ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := auth.GenerateRefreshToken(cfg, 42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	id, err := auth.ParseRefreshToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected user 42, got %d", id)
	}
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := auth.GenerateRefreshToken(cfg, 42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := auth.ParseAccessToken(cfg, token); err == nil {
		t.Fatal("refresh token should not parse as access token")
	}
}
