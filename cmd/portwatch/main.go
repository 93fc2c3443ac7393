// Package main wires together the port report service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lxuuryy/aussie-dashboard-sub004/internal/analysis"
	"github.com/lxuuryy/aussie-dashboard-sub004/internal/api"
	"github.com/lxuuryy/aussie-dashboard-sub004/internal/config"
	"github.com/lxuuryy/aussie-dashboard-sub004/internal/logging"
	"github.com/lxuuryy/aussie-dashboard-sub004/internal/metrics"
	"github.com/lxuuryy/aussie-dashboard-sub004/internal/scrape"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "portwatch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	fetcher := scrape.NewFetcher(scrape.FetcherConfig{
		UserAgent: cfg.Scrape.UserAgent,
		Timeout:   cfg.FetchTimeout(),
		CacheTTL:  cfg.CacheTTL(),
	}, logger)

	service := scrape.NewService(fetcher, cfg.PageDelay(), logger)
	analyzer := analysis.New(
		cfg.Analysis.Endpoint,
		cfg.Analysis.Model,
		cfg.Analysis.APIKey,
		cfg.Analysis.RequestsPerMinute,
	)
	if !analyzer.Enabled() {
		logger.Info("analysis disabled: no API key configured")
	}

	server := api.NewServer(service, analyzer, cfg, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
