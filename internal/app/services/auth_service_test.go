package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/pkg/apperrors"
	pkgauth "github.com/cchuang/regent/internal/pkg/auth"
)

func testAuthService(t *testing.T) (*AuthService, *fakeUserStore) {
	t.Helper()
	hash, err := pkgauth.HashPassword("correct-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := newFakeUserStore(
		&models.User{ID: 2, Username: "rchen", Password: hash, Role: models.RoleTeacher, RelatedID: strPtr("T01"), IsActive: true},
		&models.User{ID: 9, Username: "locked", Password: hash, Role: models.RoleStudent, IsActive: false},
	)
	jwt := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "test",
	})
	return NewAuthService(users, &fakeTx{}, jwt), users
}

func TestLogin(t *testing.T) {
	svc, _ := testAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "rchen", Password: "correct-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Error("empty token")
	}
	if resp.Role != "teacher" || resp.RelatedID != "T01" {
		t.Errorf("got role=%q relatedId=%q, want teacher and T01", resp.Role, resp.RelatedID)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", resp.ExpiresIn)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := testAuthService(t)
	ctx := context.Background()

	// Unknown user and wrong password look identical to the caller.
	_, err := svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "correct-pass"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err)
	}
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "rchen", Password: "wrong"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, _ := testAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "locked", Password: "correct-pass"})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Fatalf("got %v, want ErrAccountDisabled", err)
	}
}

func TestRegister(t *testing.T) {
	svc, users := testAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, &dto.RegisterRequest{Username: "newkid", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != models.RoleStudent {
		t.Errorf("role = %v, want student", u.Role)
	}
	if u.RelatedID != nil {
		t.Errorf("relatedId = %v, new accounts start unlinked", u.RelatedID)
	}
	if !u.IsActive {
		t.Error("new account not active")
	}
	if u.Password == "secret1" {
		t.Error("password stored in plaintext")
	}
	if _, err := users.GetByUsername(ctx, "newkid"); err != nil {
		t.Errorf("account not persisted: %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := testAuthService(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Username: "rchen", Password: "secret1"})
	if !errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
		t.Fatalf("got %v, want ErrUsernameAlreadyExists", err)
	}
	if field := apperrors.FieldOf(err); field != "username" {
		t.Errorf("field = %q, want username", field)
	}
}
