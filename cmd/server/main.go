package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vncsmyrnk/ballotbinder/internal/app"
	"github.com/vncsmyrnk/ballotbinder/internal/config"
	"github.com/vncsmyrnk/ballotbinder/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("cannot load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Error("failed to start application", slog.Any("error", err))
		os.Exit(1)
	}
	defer application.Close()

	server := &stdhttp.Server{Addr: cfg.HTTP.Addr, Handler: application.Handler()}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Error("http server failed", slog.Any("error", err))
			stop()
		}
	}()

	log.Info("ballot binder started",
		slog.String("env", cfg.Env),
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("storage", cfg.Storage.Driver),
	)

	<-ctx.Done()
	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", slog.Any("error", err))
	}
}
