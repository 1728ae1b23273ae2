package courts

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/heiderrevelo333/pasion-deportiva/internal/api/authz"
	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
	"github.com/heiderrevelo333/pasion-deportiva/internal/testutil"
)

func setupCourtsTest(t *testing.T) *store.Queries {
	t.Helper()

	database := testutil.NewTestDB(t)
	q := store.New(database.DB)

	queries = nil
	queriesOnce = sync.Once{}
	InitHandlers(q)

	t.Cleanup(func() {
		queries = nil
		queriesOnce = sync.Once{}
	})

	return q
}

func withRole(req *http.Request, id int64, role string) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: id, Role: role}))
}

func seedCourt(t *testing.T, q *store.Queries, name, courtType, location string) store.Court {
	t.Helper()
	court, err := q.CreateCourt(context.Background(), store.CreateCourtParams{
		Name: name, Type: courtType, Location: location,
	})
	if err != nil {
		t.Fatalf("insert court: %v", err)
	}
	return court
}

func TestHandleList_Filters(t *testing.T) {
	q := setupCourtsTest(t)
	seedCourt(t, q, "Court 1", "soccer", "North Park")
	seedCourt(t, q, "Court 2", "basketball", "South Side")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts?type=Soccer", nil)
	recorder := httptest.NewRecorder()

	HandleList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var courts []store.Court
	if err := json.Unmarshal(recorder.Body.Bytes(), &courts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(courts) != 1 || courts[0].Name != "Court 1" {
		t.Fatalf("filtered list: %+v", courts)
	}
}

func TestHandleList_EmptyIsJSONArray(t *testing.T) {
	setupCourtsTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts", nil)
	recorder := httptest.NewRecorder()

	HandleList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if strings.TrimSpace(recorder.Body.String()) != "[]" {
		t.Fatalf("body: %s", recorder.Body.String())
	}
}

func TestHandleList_PaginationBounds(t *testing.T) {
	setupCourtsTest(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"page zero", "?page=0", http.StatusBadRequest},
		{"negative page", "?page=-1", http.StatusBadRequest},
		{"page not a number", "?page=abc", http.StatusBadRequest},
		{"limit zero", "?limit=0", http.StatusBadRequest},
		{"limit too large", "?limit=101", http.StatusBadRequest},
		{"limit at maximum", "?limit=100", http.StatusOK},
		{"defaults", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/courts"+tt.query, nil)
			recorder := httptest.NewRecorder()

			HandleList(recorder, req)

			if recorder.Code != tt.status {
				t.Fatalf("status: got %d, want %d", recorder.Code, tt.status)
			}
		})
	}
}

func TestHandleList_Pagination(t *testing.T) {
	q := setupCourtsTest(t)
	for i := 1; i <= 5; i++ {
		seedCourt(t, q, fmt.Sprintf("Court %d", i), "soccer", "North Park")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts?page=2&limit=2", nil)
	recorder := httptest.NewRecorder()

	HandleList(recorder, req)

	var courts []store.Court
	if err := json.Unmarshal(recorder.Body.Bytes(), &courts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(courts) != 2 || courts[0].Name != "Court 3" {
		t.Fatalf("page 2: %+v", courts)
	}
}

func TestHandleGet(t *testing.T) {
	q := setupCourtsTest(t)
	court := seedCourt(t, q, "Court 1", "soccer", "North Park")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/courts/%d", court.ID), nil)
	req.SetPathValue("id", fmt.Sprintf("%d", court.ID))
	recorder := httptest.NewRecorder()

	HandleGet(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var got store.Court
	if err := json.Unmarshal(recorder.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != court.ID {
		t.Fatalf("id: got %d, want %d", got.ID, court.ID)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	setupCourtsTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts/999", nil)
	req.SetPathValue("id", "999")
	recorder := httptest.NewRecorder()

	HandleGet(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleCreate_RequiresAdministrator(t *testing.T) {
	setupCourtsTest(t)

	body := `{"name": "Court 1", "type": "soccer", "location": "North Park"}`

	// Unauthenticated
	req := httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	HandleCreate(recorder, req)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status: %d", recorder.Code)
	}

	// Player
	req = httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(body))
	req = withRole(req, 1, store.RolePlayer)
	recorder = httptest.NewRecorder()
	HandleCreate(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("player status: %d", recorder.Code)
	}

	// Administrator
	req = httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(body))
	req = withRole(req, 1, store.RoleAdministrator)
	recorder = httptest.NewRecorder()
	HandleCreate(recorder, req)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("admin status: %d, body: %s", recorder.Code, recorder.Body.String())
	}

	var court store.Court
	if err := json.Unmarshal(recorder.Body.Bytes(), &court); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !court.Active {
		t.Fatal("new court not active")
	}
}

func TestHandleCreate_BadInput(t *testing.T) {
	setupCourtsTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(`{"name": ""}`))
	req = withRole(req, 1, store.RoleAdministrator)
	recorder := httptest.NewRecorder()

	HandleCreate(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}
