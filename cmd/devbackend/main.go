// Command devbackend serves the auth and payment-method backend from memory
// so the dashboard can be run without the production services.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/devbackend"
	"github.com/perbaikiinaja/dashboard/internal/pkg/config"
	"github.com/perbaikiinaja/dashboard/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, "devbackend"))

	store := devbackend.NewStore()
	auth := devbackend.NewAuth(store, cfg.DevBackend.JWTSecret, cfg.DevBackend.TokenTTL)
	err := auth.Seed(domain.RoleAdmin, domain.RegisterInput{
		FullName: "Administrator",
		Email:    cfg.DevBackend.AdminEmail,
		Password: cfg.DevBackend.AdminPassword,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}
	log.Info().Str("email", cfg.DevBackend.AdminEmail).Msg("admin account seeded")

	e := devbackend.NewServer(store, auth, log).Router()

	go func() {
		addr := ":" + cfg.DevBackend.Port
		log.Info().Str("addr", addr).Msg("devbackend listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("devbackend stopped")
}
