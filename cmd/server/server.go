// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/heiderrevelo333/pasion-deportiva/internal/api"
	"github.com/heiderrevelo333/pasion-deportiva/internal/api/auth"
	"github.com/heiderrevelo333/pasion-deportiva/internal/api/courts"
	"github.com/heiderrevelo333/pasion-deportiva/internal/api/reservations"
	"github.com/heiderrevelo333/pasion-deportiva/internal/booking"
	"github.com/heiderrevelo333/pasion-deportiva/internal/config"
	"github.com/heiderrevelo333/pasion-deportiva/internal/db"
	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

func newServer(cfg *config.Config, database *db.DB) *http.Server {
	queries := store.New(database.DB)

	auth.InitHandlers(queries, cfg.Auth.SecretKey, cfg.Auth.TokenTTL())
	courts.InitHandlers(queries)
	reservations.InitHandlers(booking.NewService(database))

	router := http.NewServeMux()
	registerRoutes(router)

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithAuth(cfg.Auth.SecretKey),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth routes
	mux.HandleFunc("POST /api/v1/auth/register", auth.HandleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", auth.HandleLogin)
	mux.HandleFunc("GET /api/v1/users/me", auth.HandleMe)

	// Court routes
	mux.HandleFunc("GET /api/v1/courts", courts.HandleList)
	mux.HandleFunc("POST /api/v1/courts", courts.HandleCreate)
	mux.HandleFunc("GET /api/v1/courts/{id}", courts.HandleGet)

	// Reservation routes
	mux.HandleFunc("POST /api/v1/reservations", reservations.HandleCreate)
	mux.HandleFunc("GET /api/v1/reservations/mine", reservations.HandleMine)
	mux.HandleFunc("PUT /api/v1/reservations/{id}", reservations.HandleUpdateStatus)
	mux.HandleFunc("DELETE /api/v1/reservations/{id}", reservations.HandleCancel)
}
