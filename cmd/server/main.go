package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/bootstrap"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/config"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/scheduler"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid LOG_LEVEL: %v", err)
	}
	zapLogger, loggerSync, err := logger.NewZapLogger(level)
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, db, err := bootstrap.OpenLedger(cfg.Ledger)
	if err != nil {
		zapLogger.Fatalf("%s: can't open ledger", err)
	}
	if db != nil {
		defer db.Close()
		zapLogger.Infof("using sqlite ledger: %s", cfg.Ledger.DBPath)
	} else {
		zapLogger.Infof("using csv ledger: %s", cfg.Ledger.CSVPath)
	}

	prices, closePrices := bootstrap.NewPriceSource(cfg.Prices, zapLogger)
	defer closePrices()

	// Create services
	aggregator := service.NewAggregator(prices, time.Now, cfg.Report.Workers, zapLogger.With("component", "aggregator"))
	services := api.Services{
		System: service.NewSystemService(db, cfg.Ledger.Backend),
		Ledger: service.NewLedgerService(store, zapLogger.With("component", "ledger")),
		Report: service.NewReportService(store, aggregator, cfg.Report.ReferenceCurrency, time.Now, zapLogger.With("component", "report")),
		Trend:  service.NewTrendService(prices, time.Now),
	}

	sched := scheduler.New(zapLogger.With("component", "scheduler"))
	if cfg.Report.Schedule != "" {
		if err := sched.Add("report-refresh", cfg.Report.Schedule, services.Report.Refresh); err != nil {
			zapLogger.Fatalf("%s: can't schedule report refresh", err)
		}
		sched.Start()
		go services.Report.Refresh(ctx)
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, cfg, zapLogger.With("component", "http")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // a fresh report prices the whole ledger
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Infof("starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatalf("%s: server failed to start", err)
		}
	}()

	<-ctx.Done()
	zapLogger.Infof("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	sched.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Errorf("%s: server forced to shutdown", err)
	}

	zapLogger.Infof("server exited")
}
