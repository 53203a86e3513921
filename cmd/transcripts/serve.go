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

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/transcripts/internal/domain/search/request"
	"github.com/kailas-cloud/transcripts/internal/metrics"
	chiTransport "github.com/kailas-cloud/transcripts/internal/transport/chi"
	healthuc "github.com/kailas-cloud/transcripts/internal/usecase/health"
	"github.com/kailas-cloud/transcripts/internal/version"
)

func serveCommand(c *cli.Context) error {
	a, err := loadApp(c)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := a.cfg
	logger := a.logger
	logger.Info("Starting transcripts API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("engine_driver", cfg.Engine.Driver),
		zap.String("db_backend", cfg.Backend().String()),
	)

	ctx := c.Context
	if err := a.openStores(ctx); err != nil {
		return err
	}
	if cfg.Engine.CreateIndex {
		if err := a.ensureIndex(ctx); err != nil {
			return err
		}
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	var enginePinger healthuc.Pinger
	if a.engine != nil {
		enginePinger = a.engine
	}
	healthSvc := healthuc.New(a.sql, enginePinger)

	server := chiTransport.NewServer(a.searchService(), healthSvc, request.Limits{
		Default: cfg.Search.DefaultLimit,
		Max:     cfg.Search.MaxLimit,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
