package auth

import (
	"context"
	"testing"
	"time"

	"github.com/relief-hub/relief_hub/internal/config"
	"github.com/relief-hub/relief_hub/internal/identity"
)

func newTestService(t *testing.T) (*Service, identity.User) {
	t.Helper()
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo)
	user, err := ids.Register(context.Background(), identity.Credentials{
		FullName: "Thandi Mokoena",
		Email:    "thandi@example.co.za",
		Phone:    "0821234567",
		IDNumber: "9001015800085",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	cfg := config.Config{
		JWTSecret:       "test-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
	return NewService(cfg, repo), user
}

func TestIssueAndRefresh(t *testing.T) {
	svc, user := newTestService(t)

	pair, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.ExpiresIn <= 0 {
		t.Fatalf("expiresIn = %d", pair.ExpiresIn)
	}

	claims, err := ParseAndVerifyHS256(pair.AccessToken, []byte("test-secret"))
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if claims["sub"] != user.ID {
		t.Fatalf("sub = %v", claims["sub"])
	}
	if claims["role"] != identity.RoleUser {
		t.Fatalf("role = %v", claims["role"])
	}

	access, expiresIn, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" || expiresIn <= 0 {
		t.Fatal("expected refreshed access token")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, user := newTestService(t)

	pair, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// Signed with the wrong secret for a refresh.
	if _, _, err := svc.Refresh(context.Background(), pair.AccessToken); err == nil {
		t.Fatal("access token must not pass as a refresh token")
	}
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	pair, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); err == nil {
		t.Fatal("refresh must fail after logout bumps the token version")
	}
}
