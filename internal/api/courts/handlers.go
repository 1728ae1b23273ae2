// internal/api/courts/handlers.go
package courts

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/heiderrevelo333/pasion-deportiva/internal/api/apiutil"
	"github.com/heiderrevelo333/pasion-deportiva/internal/api/authz"
	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

var (
	queries     *store.Queries
	queriesOnce sync.Once
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *store.Queries) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

type createCourtRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

// GET /api/v1/courts
// Filters: type (exact, case-insensitive), location (substring,
// case-insensitive). Pagination: page >= 1, 1 <= limit <= 100.
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Court handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	page, ok := parsePositiveInt(r.URL.Query().Get("page"), 1)
	if !ok {
		apiutil.WriteError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	limit, ok := parsePositiveInt(r.URL.Query().Get("limit"), defaultPageLimit)
	if !ok || limit > maxPageLimit {
		apiutil.WriteError(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}

	courts, err := queries.ListActiveCourts(r.Context(), store.ListActiveCourtsParams{
		Type:     r.URL.Query().Get("type"),
		Location: r.URL.Query().Get("location"),
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list courts")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if courts == nil {
		courts = []store.Court{}
	}
	apiutil.WriteJSON(w, http.StatusOK, courts)
}

// GET /api/v1/courts/{id}
func HandleGet(w http.ResponseWriter, r *http.Request) {
	if queries == nil {
		log.Ctx(r.Context()).Error().Msg("Court handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid court id")
		return
	}

	court, err := queries.GetCourt(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "court not found")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("court_id", id).Msg("Failed to load court")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	apiutil.WriteJSON(w, http.StatusOK, court)
}

// POST /api/v1/courts (administrator only)
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Court handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := authz.RequireRole(r.Context(), store.RoleAdministrator); err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	var req createCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Type == "" || req.Location == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "name, type and location are required")
		return
	}

	court, err := queries.CreateCourt(r.Context(), store.CreateCourtParams{
		Name:     req.Name,
		Type:     req.Type,
		Location: req.Location,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create court")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	logger.Info().Int64("court_id", court.ID).Str("name", court.Name).Msg("Court created")
	apiutil.WriteJSON(w, http.StatusCreated, court)
}

func parsePositiveInt(value string, fallback int64) (int64, bool) {
	if value == "" {
		return fallback, true
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
