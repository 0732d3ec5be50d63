// Command dashboard runs the operator dashboard gateway.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/perbaikiinaja/dashboard/internal/api"
	"github.com/perbaikiinaja/dashboard/internal/api/handler"
	"github.com/perbaikiinaja/dashboard/internal/api/metrics"
	"github.com/perbaikiinaja/dashboard/internal/core/ports"
	"github.com/perbaikiinaja/dashboard/internal/core/service"
	"github.com/perbaikiinaja/dashboard/internal/core/session"
	"github.com/perbaikiinaja/dashboard/internal/infrastructure/backend"
	mongodb "github.com/perbaikiinaja/dashboard/internal/infrastructure/db/mongo"
	redisdb "github.com/perbaikiinaja/dashboard/internal/infrastructure/db/redis"
	"github.com/perbaikiinaja/dashboard/internal/infrastructure/memstore"
	"github.com/perbaikiinaja/dashboard/internal/infrastructure/queue"
	"github.com/perbaikiinaja/dashboard/internal/pkg/config"
	"github.com/perbaikiinaja/dashboard/pkg/logger"
)

// @title           Dashboard Gateway API
// @version         1.0
// @description     Operator dashboard screens for payment-method administration.
// @BasePath        /
func main() {
	cfg := config.Load()
	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, "dashboard"))
	boot := logger.Component("startup")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.Check{}

	// --- Credential store and submission guard ---
	var (
		creds ports.CredentialStore
		guard ports.SubmissionGuard
	)
	switch cfg.Dashboard.CredentialStore {
	case config.StoreRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			boot.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		creds = redisdb.NewCredentialStore(rdb)
		guard = redisdb.NewSubmissionGuard(rdb, cfg.Dashboard.SubmissionTTL)
		checks["redis"] = func(ctx context.Context) error { return redisdb.Ping(ctx, rdb, 0) }
	default:
		boot.Warn().Msg("using in-memory credential store, the session will not survive a restart")
		memGuard := memstore.NewSubmissionGuard(cfg.Dashboard.SubmissionTTL)
		go memGuard.Run(ctx)
		creds = memstore.NewCredentialStore()
		guard = memGuard
	}

	// --- Audit trail ---
	var (
		auditRepo  ports.AuditRepository
		auditSink  ports.AuditSink
		dispatcher *queue.Dispatcher
	)
	if cfg.Dashboard.AuditEnabled {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			boot.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		defer disconnect(client, boot)

		repo := mongodb.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			boot.Warn().Err(err).Msg("failed to ensure audit indexes")
		}
		dispatcher = queue.NewDispatcher(cfg.Dashboard.AuditWorkers, repo, metrics.ObserveAudit, log)
		dispatcher.Start(context.Background())

		auditRepo, auditSink = repo, dispatcher
		checks["mongo"] = func(ctx context.Context) error { return mongodb.Ping(ctx, client) }
	}

	// --- Backend and session ---
	httpClient := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
		Observe: metrics.ObserveBackend,
	}, log)
	checks["backend"] = httpClient.Ready

	sess := session.New(backend.NewAuthClient(httpClient), creds, log)
	sess.Subscribe(metrics.ObserveSession)
	if st := sess.Initialize(ctx); st.Authenticated() {
		log.Info().Str("role", string(st.Identity.Role())).Msg("resumed stored session")
	}

	payments := service.NewPaymentMethodService(
		backend.NewPaymentMethodClient(httpClient),
		sess,
		guard,
		auditSink,
		log,
	)

	e := api.NewRouter(api.Deps{
		Session:  sess,
		Payments: payments,
		Audit:    auditRepo,
		Checks:   checks,
		Log:      log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("backend", cfg.Backend.URL).Msg("dashboard listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if dispatcher != nil {
		dispatcher.Close()
	}
}

type disconnecter interface {
	Disconnect(ctx context.Context) error
}

func disconnect(client disconnecter, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect failed")
	}
}
