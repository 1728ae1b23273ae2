// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/heiderrevelo333/pasion-deportiva/internal/config"
	"github.com/heiderrevelo333/pasion-deportiva/internal/db"
	"github.com/heiderrevelo333/pasion-deportiva/internal/scheduler"
	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	// Create server instance
	server := newServer(cfg, database)

	shutdownTimeout := time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Run the approved-overlap audit outside the request path
	var sched *scheduler.Service
	if cfg.Audit.Enabled {
		sched, err = scheduler.New()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create scheduler")
		}
		if err := scheduler.RegisterOverlapAudit(sched, store.New(database.DB), cfg.Audit.CronExpr); err != nil {
			log.Fatal().Err(err).Msg("Failed to register audit job")
		}
		sched.Start()
	}

	// Run server
	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if sched != nil {
			if err := sched.Stop(); err != nil {
				log.Error().Err(err).Msg("Scheduler shutdown error")
			}
		}

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
