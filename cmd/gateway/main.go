// The gateway serves the family photo app's read path: paginated feed pages,
// single-photo metadata, and locally materialized image payloads, all backed
// by an in-process cache in front of the managed photo backend.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
	"github.com/evelyn-website/family-photo-sub000/internal/common/pagination"
	hhttp "github.com/evelyn-website/family-photo-sub000/internal/handler/http"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/cachectl"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/feed"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/photo"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/requestid"
	"github.com/evelyn-website/family-photo-sub000/internal/infra/source"
	"github.com/evelyn-website/family-photo-sub000/internal/observability/logging"
	"github.com/evelyn-website/family-photo-sub000/internal/observability/tracing"
	"github.com/evelyn-website/family-photo-sub000/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := LoadGatewayConfig()
	if err != nil {
		logger.Error("failed to load gateway configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := initTracing(logger)
	defer shutdownTracing()

	client := source.NewClient(loadSourceConfig(), logger)

	payloads, err := cache.NewPayloadCache(cache.DefaultPayloadConfig(), client, logger)
	if err != nil {
		logger.Error("failed to create payload cache", slog.Any("error", err))
		os.Exit(1)
	}

	coordinator := cache.NewCoordinator(cache.NewStore(), payloads, client, logger)

	paginationCfg := pagination.LoadFromEnv()
	handler := setupRoutes(coordinator, payloads, paginationCfg, cfg, logger)

	sweeper := startFreshnessSweep(coordinator, cfg.SweepInterval, logger)
	defer sweeper.Stop()

	warmCache(coordinator, paginationCfg, logger)

	runServer(cfg, handler, payloads, logger)
}

// initTracing installs the OpenTelemetry tracer provider and W3C propagator.
// Spans stay in-process unless an exporter is configured; the returned
// function flushes and shuts the provider down.
func initTracing(logger *slog.Logger) func() {
	res := resource.NewSchemaless(
		attribute.String("service.name", "family-photo-gateway"),
	)
	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("tracer provider shutdown error", slog.Any("error", err))
		}
	}
}

// setupRoutes registers all HTTP routes and wraps them in the middleware
// chain: request ID → tracing → metrics → timeout.
func setupRoutes(
	coordinator *cache.Coordinator,
	payloads *cache.PayloadCache,
	paginationCfg pagination.Config,
	cfg GatewayConfig,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	feed.Register(mux, coordinator, coordinator, paginationCfg, logger)
	photo.Register(mux, coordinator)
	cachectl.Register(mux, coordinator, logger)

	mux.Handle("GET /healthz", &hhttp.HealthHandler{
		Cache:    coordinator,
		Payloads: payloads,
		Version:  cfg.Version,
	})

	var handler http.Handler = mux
	handler = hhttp.Timeout(cfg.RequestTimeout)(handler)
	handler = hhttp.MetricsMiddleware(handler)
	handler = tracing.Middleware(handler)
	handler = requestid.Middleware(handler)
	return handler
}

// startFreshnessSweep schedules periodic whole-cache invalidation. The app's
// mutation webhook handles targeted staleness; the sweep is the backstop for
// mutations the gateway never hears about.
func startFreshnessSweep(coordinator *cache.Coordinator, interval time.Duration, logger *slog.Logger) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@every "+interval.String(), func() {
		logger.Info("freshness sweep: invalidating photo cache",
			slog.Duration("interval", interval))
		coordinator.Invalidate()
	})
	if err != nil {
		logger.Error("failed to schedule freshness sweep", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	logger.Info("freshness sweep scheduled", slog.Duration("interval", interval))
	return c
}

// warmCache prefetches the first page of each configured feed so the first
// visitor after a deploy is not the one paying the cold-fetch latency.
// Best-effort: failures are logged and the feed stays cold until requested.
func warmCache(coordinator *cache.Coordinator, paginationCfg pagination.Config, logger *slog.Logger) {
	feeds := config.GetEnvStringList("GATEWAY_WARMUP_FEEDS", nil)
	for _, name := range feeds {
		go func(name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := coordinator.EnsurePage(ctx, name, 1, paginationCfg.DefaultPageSize); err != nil {
				logger.Warn("cache warmup failed",
					slog.String("feed", name),
					slog.Any("error", err))
				return
			}
			logger.Info("cache warmed", slog.String("feed", name))
		}(name)
	}
}

// runServer runs the main and metrics HTTP servers until SIGINT/SIGTERM,
// then shuts down gracefully and disposes the payload cache so every blob
// handle is revoked before exit.
func runServer(cfg GatewayConfig, handler http.Handler, payloads *cache.PayloadCache, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	startMetricsServer(ctx, logger, cfg.MetricsPort)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("gateway listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("gateway stopped with error", slog.Any("error", err))
	}

	if err := payloads.Dispose(); err != nil {
		logger.Error("failed to dispose payload cache", slog.Any("error", err))
	}
	logger.Info("gateway stopped")
}
