// Package apiutil holds JSON encoding helpers and the mapping from the
// service error taxonomy to HTTP status codes.
package apiutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/heiderrevelo333/pasion-deportiva/internal/api/authz"
	"github.com/heiderrevelo333/pasion-deportiva/internal/booking"
	"github.com/heiderrevelo333/pasion-deportiva/internal/contact"
	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResponse{Error: message})
}

// WriteServiceError translates an error from the booking or store layers
// into the matching HTTP status. Unrecognized errors are logged and reported
// as a generic internal error so storage details never leak to callers.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation), errors.Is(err, contact.ErrInvalid):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrContactTaken):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrConflict):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrForbidden), errors.Is(err, authz.ErrForbidden):
		WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, authz.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "authentication required")
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
