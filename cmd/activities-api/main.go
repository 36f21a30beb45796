// cmd/activities-api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"mergington-activities/internal/api"
	"mergington-activities/internal/catalog"
	"mergington-activities/internal/common/config"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/observability"
	"mergington-activities/internal/events"
	"mergington-activities/internal/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console", "stderr")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting activities API",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	seed, err := catalog.Load(cfg.Registry.SeedPath)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err), zap.String("path", cfg.Registry.SeedPath))
	}

	reg, err := registry.New(seed,
		registry.WithCapacityEnforcement(cfg.Registry.EnforceCapacity),
		registry.WithLogger(log),
	)
	if err != nil {
		zapLog.Fatal("registry init failed", zap.Error(err))
	}
	zapLog.Info("Registry ready",
		zap.Int("activities", len(reg.Names())),
		zap.Bool("enforceCapacity", cfg.Registry.EnforceCapacity),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := connectSinks(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("event sink init failed", zap.Error(err))
	}
	defer deps.close(log)

	dispatcher := events.NewDispatcher(log, config.GetDuration(cfg.Events.PublishTimeout), deps.sinks...)
	zapLog.Info("Event sinks configured", zap.Strings("sinks", dispatcher.Sinks()))

	opts := []api.Option{
		api.WithPublisher(dispatcher),
		api.WithObservability(obs),
		api.WithStaticDir(cfg.Server.StaticDir),
	}
	for name, check := range deps.checks {
		opts = append(opts, api.WithReadinessCheck(name, check))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.New(reg, log, opts...).Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping server...")
	case err := <-serveErr:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(); err != nil {
		zapLog.Warn("Closing event sinks failed", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("Observability shutdown failed", zap.Error(err))
	}

	zapLog.Info("Activities API stopped")
}
