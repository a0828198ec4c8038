package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/drif-ai/finance/internal/accounts"
	"github.com/drif-ai/finance/internal/app"
	"github.com/drif-ai/finance/internal/importer"
	"github.com/drif-ai/finance/internal/journal"
	"github.com/drif-ai/finance/internal/ledger"
	"github.com/drif-ai/finance/internal/observability"
	"github.com/drif-ai/finance/internal/platform/cache"
	"github.com/drif-ai/finance/internal/platform/db"
	"github.com/drif-ai/finance/internal/reports"
	"github.com/drif-ai/finance/internal/shared"
	"github.com/drif-ai/finance/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	classifier := ledger.NewClassifier(cfg.ContraMarkers, cfg.CashMarkers)

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportLoader := reports.NewRepository(pool)
	reportService := reports.NewService(reportLoader, reportCache, cfg.EquityAccountCode)
	reportHandler := reports.NewHandler(logger, reportService)

	journalRepo := journal.NewRepository(pool)
	journalService := journal.NewService(journalRepo, auditLogger, reportCache)
	journalHandler := journal.NewHandler(logger, journalService)

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo, journalService, classifier, cfg.EquityAccountCode)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	importerService := importer.NewService(journalService)
	importerHandler := importer.NewHandler(logger, importerService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AccountsHandler: accountsHandler,
		JournalHandler:  journalHandler,
		ReportsHandler:  reportHandler,
		ImporterHandler: importerHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
