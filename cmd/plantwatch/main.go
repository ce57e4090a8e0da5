package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plantstack/plantwatch/internal/alerts"
	"github.com/plantstack/plantwatch/internal/api"
	"github.com/plantstack/plantwatch/internal/config"
	"github.com/plantstack/plantwatch/internal/metrics"
	"github.com/plantstack/plantwatch/internal/refresher"
	"github.com/plantstack/plantwatch/internal/simulator"
	"github.com/plantstack/plantwatch/internal/state"
	"github.com/plantstack/plantwatch/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting plantwatch", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	advisor, err := alerts.NewAdvisor(cfg.Alerts.RulesPath, logger)
	if err != nil {
		logger.Error("failed to load alert rule pack", slog.Any("error", err))
		os.Exit(1)
	}
	evaluator := alerts.NewEvaluator(logger, advisor)

	generator := simulator.New(simulator.Config{
		Lookback: cfg.Simulator.Lookback(),
		Seed:     cfg.Simulator.Seed,
		Logger:   logger,
	})

	cell := state.NewCell(cfg.Dashboard.Settings())
	hub := api.NewHub(logger)
	loop := refresher.New(logger, generator, evaluator, cell, hub)

	handlers := api.NewHandlers(logger, generator, cell, loop, hub)
	server, err := api.NewServer(cfg.Server, handlers.Router())
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if advisor != nil && cfg.Alerts.WatchRules {
		go func() {
			if err := advisor.Watch(ctx); err != nil {
				logger.Warn("alert rule watch stopped", slog.Any("error", err))
			}
		}()
	}

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go loop.Run(ctx)

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("HTTP server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("plantwatch stopped")
}
