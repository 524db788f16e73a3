package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/roster-engine/api"
	"github.com/warp/roster-engine/store/sqlite"
	"go.uber.org/zap"
)

var servePort int

// serveCmd starts the HTTP API.
//
// GRACEFUL SHUTDOWN:
//
//	On SIGINT/SIGTERM:
//	1. Stop the sweeper
//	2. Stop accepting new connections
//	3. Wait for active requests to complete (30s timeout)
//	4. Close database connection
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the background re-audit sweeper",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	opts := cfg.AuditOptions()
	handler := api.NewHandler(store, logger, opts)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	sweeper := api.NewAuditSweeper(store, logger, opts)
	sweeper.Enabled = cfg.Sweeper.Enabled
	sweeper.Interval = cfg.Sweeper.Interval
	sweeper.Concurrency = cfg.Sweeper.Concurrency
	sweeper.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.Int("port", port), zap.String("db", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-serveErr:
		sweeper.Stop()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	logger.Info("shutting down server")
	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
