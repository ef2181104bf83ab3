package identity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/voiceroom/server/internal/domain"
	"github.com/voiceroom/server/internal/identity"
)

func TestVerifyRoundTrip(t *testing.T) {
	v := identity.NewVerifier("test-secret")
	token, err := v.Sign(&domain.User{ID: "u1", Username: "alice"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	user, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if user.ID != "u1" || user.Username != "alice" {
		t.Errorf("got %+v, want u1/alice", user)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := identity.NewVerifier("one").Sign(&domain.User{ID: "u1", Username: "alice"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := identity.NewVerifier("two").Verify(token); !errors.Is(err, identity.ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	v := identity.NewVerifier("test-secret")
	token, err := v.Sign(&domain.User{ID: "u1", Username: "alice"}, -time.Minute)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := v.Verify(token); !errors.Is(err, identity.ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := identity.NewVerifier("test-secret")
	if _, err := v.Verify("not-a-token"); !errors.Is(err, identity.ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}
