package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/finvoy/spendsheet/internal/api"
	"github.com/finvoy/spendsheet/internal/config"
	"github.com/finvoy/spendsheet/internal/localstate"
	"github.com/finvoy/spendsheet/internal/notify"
	"github.com/finvoy/spendsheet/internal/store"
	"github.com/finvoy/spendsheet/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureStateDir(cfg.State.Path); err != nil {
		logger.Error("failed to prepare state path", "error", err)
		os.Exit(1)
	}

	local, err := localstate.Open(cfg.State.Path)
	if err != nil {
		logger.Error("failed to open state file", "error", err)
		os.Exit(1)
	}
	defer local.Close()

	st := store.New(local, logger)
	client := api.New(cfg.API.BaseURL, st, logger)
	service := store.NewService(
		st,
		local,
		client,
		client,
		client.Expenses(),
		client.Liabilities(),
		logger,
	)

	if err := service.Bootstrap(context.Background()); err != nil {
		logger.Warn("restoring persisted state failed", "error", err)
	}

	center := notify.NewCenter(0)
	server := web.NewServer(service, client, center, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}

	go func() {
		logger.Info("ui listening", "addr", cfg.Server.Addr, "backend", cfg.API.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureStateDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
