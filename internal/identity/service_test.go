package identity

import (
	"context"
	"testing"
)

func validCreds() Credentials {
	return Credentials{
		FullName: "Thandi Mokoena",
		Email:    "thandi@example.co.za",
		Phone:    "0821234567",
		IDNumber: "9001015800085",
		Password: "s3cret-pass",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, validCreds())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != RoleUser || !user.Active {
		t.Fatalf("expected active USER, got %+v", user)
	}

	authed, err := svc.Authenticate(ctx, "Thandi@Example.co.za", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validCreds()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "thandi@example.co.za", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthenticateSuspended(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, validCreds())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := repo.SetActive(ctx, user.ID, false); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if _, err := svc.Authenticate(ctx, user.Email, "s3cret-pass"); err != ErrAccountSuspended {
		t.Fatalf("expected suspended, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	bad := validCreds()
	bad.IDNumber = "12345"
	if _, err := svc.Register(ctx, bad); err == nil {
		t.Fatalf("expected ID number rejection")
	}

	bad = validCreds()
	bad.Email = "not-an-email"
	if _, err := svc.Register(ctx, bad); err == nil {
		t.Fatalf("expected email rejection")
	}

	bad = validCreds()
	bad.Password = "short"
	if _, err := svc.Register(ctx, bad); err == nil {
		t.Fatalf("expected password rejection")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validCreds()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, validCreds()); err != ErrEmailTaken {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestVerifyChannels(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, validCreds())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Verified() {
		t.Fatalf("new user must be unverified")
	}
	if err := svc.VerifyEmail(ctx, user.ID); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	fetched, _ := repo.FindByID(ctx, user.ID)
	if !fetched.Verified() || !fetched.EmailVerified {
		t.Fatalf("expected email verified, got %+v", fetched)
	}
}
