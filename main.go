package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/worldstaffingawards/wsa2026/cliparse"
	"github.com/worldstaffingawards/wsa2026/db"
	"github.com/worldstaffingawards/wsa2026/outbox"
	"github.com/worldstaffingawards/wsa2026/router"
	"github.com/worldstaffingawards/wsa2026/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect and verify
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Apply migrations
	if err := db.CreateSchema(ctx, dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Background outbox sync
	var wg sync.WaitGroup
	if cfg.SyncInterval > 0 {
		clients := outbox.Clients(cfg.HubSpotBaseURL, cfg.HubSpotToken, cfg.LoopsBaseURL, cfg.LoopsAPIKey)
		if len(clients) == 0 {
			slog.Warn("sync interval set but no HubSpot or Loops credentials configured")
		}
		runner := outbox.NewRunner(store.New(dbConn), clients)
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Run(ctx, cfg.SyncInterval)
		}()
	}

	server := http.Server{
		Handler:           router.NewRouter(dbConn, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "base_url", cfg.PublicBaseURL)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		stop()
		wg.Wait()
		os.Exit(1)
	}

	stop()
	wg.Wait()
	slog.Info("Server closed")
}
