package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"church_roster/internal/api"
	"church_roster/internal/app/service"
	"church_roster/internal/app/worker"
	"church_roster/internal/common/security"
	"church_roster/internal/domain/repository"
	"church_roster/internal/platform/cache"
	"church_roster/internal/platform/config"
	"church_roster/internal/platform/database"
	"church_roster/internal/platform/metrics"
	"church_roster/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), configFromContext(cmd.Context()))
		},
	}
}

func serveRun(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database (tables are created idempotently)
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// 2. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.DBDriver),
	)
	m := metrics.New(registry)

	// 3. Session store
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()
	sessionRepo, rdb, err := newSessionRepository(workerCtx, cfg, m)
	if err != nil {
		return err
	}
	defer cache.CloseRedis(rdb)

	// 4. Repositories & services
	adminRepo := repository.NewSQLAdminRepository(db, cfg.DBQueryTimeout)
	memberRepo := repository.NewSQLMemberRepository(db, cfg.DBQueryTimeout)
	authService := service.NewAuthService(adminRepo, sessionRepo, cfg.SessionTTL, m)
	memberService := service.NewMemberService(memberRepo, m)

	// 5. Router & HTTP server
	tokens := security.NewSessionTokens([]byte(cfg.SessionSecret), cfg.SessionTTL, cfg.SessionCookieName, cfg.SessionCookieSecure)
	router := api.NewRouter(api.RouterDeps{
		AuthService:   authService,
		MemberService: memberService,
		Tokens:        tokens,
		Metrics:       m,
		Gatherer:      registry,
		DB:            db,
		Site:          web.Site(),
		PublicRoster:  cfg.PublicRosterEnabled,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 6. Graceful Shutdown
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	log.Info().Msg("Shutting down server...")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("Server stopped gracefully.")
	return nil
}

// newSessionRepository builds the configured session store. The Redis client
// is nil for the in-memory store, which instead gets a sweeper goroutine
// bound to ctx.
func newSessionRepository(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (repository.SessionRepository, *redis.Client, error) {
	if cfg.SessionStore == config.SessionStoreMemory {
		store := repository.NewMemorySessionRepository()
		go worker.NewSessionSweeper(store, cfg.SessionSweepEvery, m).Start(ctx)
		log.Warn().Msg("Using in-memory session store; sessions are lost on restart")
		return store, nil, nil
	}

	rdb, err := cache.ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewRedisSessionRepository(rdb), rdb, nil
}

// openDatabase is shared by the one-shot subcommands.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	return database.Connect(ctx, cfg)
}
