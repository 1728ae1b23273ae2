package auth

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/heiderrevelo333/pasion-deportiva/internal/api/authz"
	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
	"github.com/heiderrevelo333/pasion-deportiva/internal/testutil"
)

func setupAuthTest(t *testing.T) *store.Queries {
	t.Helper()

	database := testutil.NewTestDB(t)
	q := store.New(database.DB)

	queries = nil
	queriesOnce = sync.Once{}
	InitHandlers(q, "test-secret", time.Hour)

	t.Cleanup(func() {
		queries = nil
		queriesOnce = sync.Once{}
	})

	return q
}

func postJSON(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestHandleRegister(t *testing.T) {
	setupAuthTest(t)

	recorder := postJSON(t, HandleRegister, "/api/v1/auth/register",
		`{"name": "Ana", "contact": "Ana@Example.com", "password": "s3cret"}`)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d, body: %s", recorder.Code, recorder.Body.String())
	}

	var user store.User
	if err := json.Unmarshal(recorder.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Role != store.RolePlayer {
		t.Fatalf("role: %q", user.Role)
	}
	if user.Contact != "ana@example.com" {
		t.Fatalf("contact not normalized: %q", user.Contact)
	}
	if strings.Contains(strings.ToLower(recorder.Body.String()), "password") {
		t.Fatalf("response leaks credential material: %s", recorder.Body.String())
	}
}

func TestHandleRegister_ContactTaken(t *testing.T) {
	setupAuthTest(t)

	first := postJSON(t, HandleRegister, "/api/v1/auth/register",
		`{"name": "Ana", "contact": "ana@example.com", "password": "s3cret"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first register: %d", first.Code)
	}

	// Same handle in different casing is still taken.
	second := postJSON(t, HandleRegister, "/api/v1/auth/register",
		`{"name": "Impostor", "contact": "ANA@example.com", "password": "other"}`)
	if second.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: %d", second.Code)
	}
}

func TestHandleRegister_BadInput(t *testing.T) {
	setupAuthTest(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "nope"},
		{"missing fields", `{"name": "Ana"}`},
		{"invalid contact", `{"name": "Ana", "contact": "not-a-contact", "password": "s3cret"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, HandleRegister, "/api/v1/auth/register", tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status: %d", recorder.Code)
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	setupAuthTest(t)

	if rec := postJSON(t, HandleRegister, "/api/v1/auth/register",
		`{"name": "Ana", "contact": "ana@example.com", "password": "s3cret"}`); rec.Code != http.StatusCreated {
		t.Fatalf("register: %d", rec.Code)
	}

	recorder := postJSON(t, HandleLogin, "/api/v1/auth/login",
		`{"contact": "ana@example.com", "password": "s3cret"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d, body: %s", recorder.Code, recorder.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Role != store.RolePlayer {
		t.Fatalf("role: %q", resp.Role)
	}
	if resp.TokenType != "Bearer" {
		t.Fatalf("token type: %q", resp.TokenType)
	}

	userID, role, err := ParseAccessToken("test-secret", resp.AccessToken)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if userID != resp.UserID || role != resp.Role {
		t.Fatalf("token claims: user %d role %q", userID, role)
	}
}

func TestHandleLogin_Rejections(t *testing.T) {
	setupAuthTest(t)

	if rec := postJSON(t, HandleRegister, "/api/v1/auth/register",
		`{"name": "Ana", "contact": "ana@example.com", "password": "s3cret"}`); rec.Code != http.StatusCreated {
		t.Fatalf("register: %d", rec.Code)
	}

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"contact": "ana@example.com", "password": "wrong"}`},
		{"unknown user", `{"contact": "nobody@example.com", "password": "s3cret"}`},
		{"malformed contact", `{"contact": "???", "password": "s3cret"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, HandleLogin, "/api/v1/auth/login", tt.body)
			if recorder.Code != http.StatusUnauthorized {
				t.Fatalf("status: %d", recorder.Code)
			}
		})
	}
}

func TestHandleMe(t *testing.T) {
	q := setupAuthTest(t)

	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Name:         "Ana",
		Contact:      "ana@example.com",
		Role:         store.RolePlayer,
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req = req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: user.ID, Role: user.Role}))
	recorder := httptest.NewRecorder()

	HandleMe(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var got store.User
	if err := json.Unmarshal(recorder.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("id: got %d, want %d", got.ID, user.ID)
	}
}

func TestHandleMe_Uninitialized(t *testing.T) {
	queries = nil
	queriesOnce = sync.Once{}
	t.Cleanup(func() {
		queries = nil
		queriesOnce = sync.Once{}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req = req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: 1, Role: store.RolePlayer}))
	recorder := httptest.NewRecorder()

	HandleMe(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleMe_Unauthenticated(t *testing.T) {
	setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	recorder := httptest.NewRecorder()

	HandleMe(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status: %d", recorder.Code)
	}
}
