package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/heiderrevelo333/pasion-deportiva/internal/api/apiutil"
	"github.com/heiderrevelo333/pasion-deportiva/internal/api/authz"
	"github.com/heiderrevelo333/pasion-deportiva/internal/contact"
	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

var (
	queries     *store.Queries
	secret      string
	tokenTTL    time.Duration
	limiter     *rate.Limiter
	queriesOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *store.Queries, secretKey string, ttl time.Duration) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
		secret = secretKey
		tokenTTL = ttl
		limiter = rate.NewLimiter(rate.Limit(10), 20) // More restrictive for auth
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
}

type loginRequest struct {
	Contact  string `json:"contact"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID      int64  `json:"user_id"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// POST /api/v1/auth/register
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Auth handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Contact == "" || req.Password == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "name, contact and password are required")
		return
	}

	normalized, err := contact.Normalize(req.Contact)
	if err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// The public path always registers players; administrators are
	// provisioned out of band.
	user, err := queries.CreateUser(r.Context(), store.CreateUserParams{
		Name:         req.Name,
		Contact:      normalized,
		Role:         store.RolePlayer,
		PasswordHash: hash,
	})
	if err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	logger.Info().Int64("user_id", user.ID).Msg("User registered")
	apiutil.WriteJSON(w, http.StatusCreated, user)
}

// POST /api/v1/auth/login
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Auth handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !limiter.Allow() {
		apiutil.WriteError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// A handle that cannot be normalized cannot match a stored user, and
	// unknown user and bad password are indistinguishable to the caller.
	normalized, err := contact.Normalize(req.Contact)
	if err != nil {
		apiutil.WriteError(w, http.StatusUnauthorized, "incorrect contact or password")
		return
	}

	user, err := queries.GetUserByContact(r.Context(), normalized)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Error().Err(err).Msg("Failed to look up user")
			apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		apiutil.WriteError(w, http.StatusUnauthorized, "incorrect contact or password")
		return
	}

	if !user.Active || !VerifyPassword(user.PasswordHash, req.Password) {
		apiutil.WriteError(w, http.StatusUnauthorized, "incorrect contact or password")
		return
	}

	token, err := CreateAccessToken(secret, user.ID, user.Role, tokenTTL)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign access token")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	logger.Info().Int64("user_id", user.ID).Msg("User logged in")
	apiutil.WriteJSON(w, http.StatusOK, loginResponse{
		UserID:      user.ID,
		Role:        user.Role,
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

// GET /api/v1/users/me
func HandleMe(w http.ResponseWriter, r *http.Request) {
	if queries == nil {
		log.Ctx(r.Context()).Error().Msg("Auth handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	caller, err := authz.RequireUser(r.Context())
	if err != nil {
		apiutil.WriteServiceError(w, r, err)
		return
	}

	user, err := queries.GetUser(r.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		apiutil.WriteServiceError(w, r, err)
		return
	}

	apiutil.WriteJSON(w, http.StatusOK, user)
}
