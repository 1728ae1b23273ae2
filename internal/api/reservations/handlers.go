// internal/api/reservations/handlers.go
package reservations

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/heiderrevelo333/pasion-deportiva/internal/api/apiutil"
	"github.com/heiderrevelo333/pasion-deportiva/internal/api/authz"
	"github.com/heiderrevelo333/pasion-deportiva/internal/booking"
	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

var (
	service     *booking.Service
	serviceOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *booking.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

type createReservationRequest struct {
	CourtID   int64  `json:"court_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// POST /api/v1/reservations (player only)
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Reservation handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := authz.RequireRole(r.Context(), store.RolePlayer); err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}
	caller := authz.UserFromContext(r.Context())

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reservation, err := service.Create(r.Context(), caller.ID, req.CourtID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	apiutil.WriteJSON(w, http.StatusCreated, reservation)
}

// GET /api/v1/reservations/mine
func HandleMine(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		log.Ctx(r.Context()).Error().Msg("Reservation handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	caller, err := authz.RequireUser(r.Context())
	if err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	reservations, err := service.ListForUser(r.Context(), caller.ID)
	if err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	if reservations == nil {
		reservations = []store.Reservation{}
	}
	apiutil.WriteJSON(w, http.StatusOK, reservations)
}

// PUT /api/v1/reservations/{id} (administrator only)
func HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		log.Ctx(r.Context()).Error().Msg("Reservation handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := authz.RequireRole(r.Context(), store.RoleAdministrator); err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	id, ok := reservationID(r)
	if !ok {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reservation, err := service.AdminSetStatus(r.Context(), id, req.Status)
	if err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	apiutil.WriteJSON(w, http.StatusOK, reservation)
}

// DELETE /api/v1/reservations/{id} (owner only)
func HandleCancel(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		log.Ctx(r.Context()).Error().Msg("Reservation handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	caller, err := authz.RequireUser(r.Context())
	if err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	id, ok := reservationID(r)
	if !ok {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	if _, err := service.CancelByOwner(r.Context(), id, caller.ID); err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func reservationID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
