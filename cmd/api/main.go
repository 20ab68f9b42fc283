package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docintake/internal/bootstrap"
	"docintake/internal/shared/config"
	"docintake/internal/shared/server"
	"docintake/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	telemetry.Init(telemetry.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer telemetry.Sync()

	warnings, err := cfg.Validate()
	if err != nil {
		telemetry.Error("config.invalid", map[string]any{"error": err})
		return err
	}
	for _, w := range warnings {
		telemetry.Warn("config.warning", map[string]any{"warning": w})
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err})
		return err
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		telemetry.Info("server.start", map[string]any{
			"addr":      addr,
			"env":       cfg.Env,
			"db_driver": app.Config.DBDriver,
			"store":     cfg.ObjectStoreType,
			"smtp":      cfg.SMTPAddr(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		telemetry.Error("server.error", map[string]any{"error": err})
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Error("server.shutdown", map[string]any{"error": err})
	}
	telemetry.Info("server.stopped", nil)
	return nil
}
