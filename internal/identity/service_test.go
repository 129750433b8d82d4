package identity

import (
	"context"
	"strings"
	"testing"

	"github.com/spendwise/spendwise/internal/media"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository(), media.StaticUploader{})
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Email: "Ana@Example.com", Password: "hunter22", DisplayName: "Ana"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "ana@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
	if authed.LastLogin.IsZero() {
		t.Fatal("expected last login to be recorded")
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository(), media.StaticUploader{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "bob@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, Credentials{Email: "bob@example.com", Password: "wrong"}); err == nil {
		t.Fatal("expected authentication to fail")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), media.StaticUploader{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "not-an-email", Password: "hunter22"}); err == nil {
		t.Fatal("expected invalid email to be rejected")
	}
	if _, err := svc.Register(ctx, Credentials{Email: "ok@example.com", Password: "short"}); err == nil {
		t.Fatal("expected short password to be rejected")
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	svc := NewService(NewMemoryRepository(), media.StaticUploader{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "dup@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, Credentials{Email: "dup@example.com", Password: "hunter23"}); err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}
}

func TestUpdateProfileUploadsAvatar(t *testing.T) {
	svc := NewService(NewMemoryRepository(), media.StaticUploader{})
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Email: "carol@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, ProfileInput{UserID: user.ID, DisplayName: "Carol", Photo: "file:///tmp/avatar.png"})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.DisplayName != "Carol" {
		t.Fatalf("expected display name Carol, got %q", updated.DisplayName)
	}
	if !strings.HasPrefix(updated.PhotoURL, "https://") {
		t.Fatalf("expected hosted avatar URL, got %q", updated.PhotoURL)
	}
}
