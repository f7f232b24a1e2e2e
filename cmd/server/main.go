package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hrdesk/backend/internal/ai"
	"github.com/hrdesk/backend/internal/audit"
	"github.com/hrdesk/backend/internal/config"
	httpapi "github.com/hrdesk/backend/internal/http"
	"github.com/hrdesk/backend/internal/identity"
	"github.com/hrdesk/backend/internal/metrics"
	"github.com/hrdesk/backend/internal/service"
	"github.com/hrdesk/backend/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "hrdesk-backend").Logger()

	ctx := context.Background()

	if cfg.TracingEnabled {
		shutdownTracer, err := telemetry.InitTracer("hrdesk-backend", os.Stdout, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init tracing")
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	sink, closeSinks, err := audit.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open audit sinks")
	}
	defer closeSinks()
	auditor := audit.NewAuditor(sink, cfg.AuditTimeout, logger, m)

	backend, err := ai.NewBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure chat backend")
	}
	logger.Info().Str("backend", backend.Name()).Msg("chat backend selected")

	orchestrator := service.NewOrchestrator(backend, logger, m)
	tokens := identity.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)

	router := httpapi.Router(cfg, orchestrator, auditor, tokens, prometheus.DefaultGatherer, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
