package auth

import (
	"testing"
	"time"

	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := CreateAccessToken("test-secret", 42, store.RoleAdministrator, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	userID, role, err := ParseAccessToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("user id: got %d, want 42", userID)
	}
	if role != store.RoleAdministrator {
		t.Fatalf("role: got %q", role)
	}
}

func TestParseAccessToken_Rejections(t *testing.T) {
	valid, err := CreateAccessToken("test-secret", 42, store.RolePlayer, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	expired, err := CreateAccessToken("test-secret", 42, store.RolePlayer, -time.Minute)
	if err != nil {
		t.Fatalf("create expired: %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other-secret", valid},
		{"expired", "test-secret", expired},
		{"garbage", "test-secret", "not.a.token"},
		{"empty", "test-secret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseAccessToken(tt.secret, tt.token); err == nil {
				t.Fatal("token accepted")
			}
		})
	}
}
