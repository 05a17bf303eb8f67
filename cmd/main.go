package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stockfolio/internal/analytics"
	"stockfolio/internal/handler"
	"stockfolio/internal/ledger"
	"stockfolio/internal/repo"
	"stockfolio/internal/service"
	"stockfolio/pkg/database"
	"stockfolio/pkg/integrations/marketdata/stooqdaily"
	"stockfolio/pkg/integrations/memcache"
	"stockfolio/pkg/utils"
)

func main() {
	utils.LoadEnv()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(utils.GetEnv("LOG_LEVEL", "info")),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPath := utils.GetEnv("DB_PATH", "./data/stockfolio.db")
	db, err := database.New(database.WithPath(dbPath))
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	repository, err := repo.New(db.Get())
	if err != nil {
		log.Fatal("Failed to create repository:", err)
	}

	if err := repository.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	processor, err := ledger.NewProcessor(
		ledger.WithRepository(repository),
		ledger.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("Failed to create transaction processor:", err)
	}

	engine, err := analytics.NewEngine(
		analytics.WithRepository(repository),
		analytics.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("Failed to create analytics engine:", err)
	}

	priceCache := memcache.New[string, float64]()

	var ingestSvc *service.IngestService
	if symbols := ingestSymbols(); len(symbols) > 0 {
		ingestSvc, err = service.NewIngestService(
			service.WithIngestContext(ctx),
			service.WithIngestLogger(logger),
			service.WithIngestFetcher(stooqdaily.NewFetcher()),
			service.WithIngestRepo(repository),
			service.WithIngestCache(priceCache),
			service.WithIngestSymbols(symbols),
			service.WithIngestInterval(utils.GetEnvDuration("INGEST_INTERVAL", 24*time.Hour)),
		)
		if err != nil {
			log.Fatal("Failed to create ingest service:", err)
		}
		if err := ingestSvc.Start(); err != nil {
			log.Fatal("Failed to start ingest service:", err)
		}
	}

	defaultCash := decimal.NewFromInt(int64(utils.GetEnvInt("DEFAULT_CASH", 10000)))

	r := gin.Default()

	h, err := handler.New(
		handler.WithEngine(r),
		handler.WithRepository(repository),
		handler.WithProcessor(processor),
		handler.WithAnalyticsEngine(engine),
		handler.WithPriceCache(priceCache),
		handler.WithDefaultCash(defaultCash),
	)
	if err != nil {
		log.Fatal("Failed to create handler:", err)
	}
	if err := h.Setup(); err != nil {
		log.Fatal("Failed to setup routes:", err)
	}

	port := utils.GetEnv("PORT", "8080")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
		if ingestSvc != nil {
			ingestSvc.Stop()
		}
		os.Exit(0)
	}()

	logger.Info("starting stockfolio", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func ingestSymbols() []string {
	raw := utils.GetEnv("INGEST_SYMBOLS", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}
	return symbols
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
