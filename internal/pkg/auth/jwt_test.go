package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/cchuang/regent/internal/app/models"
)

func testUser() *models.User {
	relatedID := "T01"
	return &models.User{
		ID:        42,
		Username:  "rchen",
		Role:      models.RoleTeacher,
		RelatedID: &relatedID,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "test",
	})

	token, expiresIn, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "rchen" || claims.Role != "teacher" || claims.RelatedID != "T01" {
		t.Errorf("claims round trip wrong: %+v", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    -time.Minute,
		TokenIssuer: "test",
	})

	token, _, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("got %v, want ErrExpiredToken", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := NewJWTService(JWTConfig{SecretKey: "secret-a", TokenExp: time.Hour})
	verifier := NewJWTService(JWTConfig{SecretKey: "secret-b", TokenExp: time.Hour})

	token, _, err := issuer.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("token signed with another secret must not validate")
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bearer abc.def.ghi", "abc.def.ghi", false},
		{"abc.def.ghi", "", true},
		{"Basic dXNlcg==", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ExtractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Errorf("header %q: expected error", tc.header)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("header %q: got %q, %v", tc.header, got, err)
		}
	}
}
