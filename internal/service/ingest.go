package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"stockfolio/internal/models"
	tickerScheduler "stockfolio/pkg/integrations/scheduler"
	"stockfolio/pkg/types/cache"
	"stockfolio/pkg/types/marketdata"
)

var ErrInvalidIngestConfig = errors.New("invalid ingest service config")

// PriceWriter is the slice of the repository the ingestion collaborator
// needs: the append/upsert-only write path of the price store.
type PriceWriter interface {
	UpsertPricePoint(p *models.PricePoint) error
}

// IngestService periodically pulls daily bars for a configured symbol set
// and upserts them into the price store. It is the only writer of price
// rows besides the manual add endpoint.
type IngestService struct {
	ctx        context.Context
	logger     *slog.Logger
	fetcher    marketdata.Fetcher
	repo       PriceWriter
	priceCache cache.Cache[string, float64]
	symbols    []string
	interval   time.Duration
	lookback   time.Duration
	scheduler  *tickerScheduler.Scheduler
}

type IngestOption func(*IngestService)

func WithIngestContext(ctx context.Context) IngestOption {
	return func(s *IngestService) {
		s.ctx = ctx
	}
}

func WithIngestLogger(l *slog.Logger) IngestOption {
	return func(s *IngestService) {
		s.logger = l
	}
}

func WithIngestFetcher(f marketdata.Fetcher) IngestOption {
	return func(s *IngestService) {
		s.fetcher = f
	}
}

func WithIngestRepo(r PriceWriter) IngestOption {
	return func(s *IngestService) {
		s.repo = r
	}
}

func WithIngestCache(c cache.Cache[string, float64]) IngestOption {
	return func(s *IngestService) {
		s.priceCache = c
	}
}

func WithIngestSymbols(symbols []string) IngestOption {
	return func(s *IngestService) {
		s.symbols = symbols
	}
}

func WithIngestInterval(d time.Duration) IngestOption {
	return func(s *IngestService) {
		s.interval = d
	}
}

func (s *IngestService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidIngestConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidIngestConfig, "logger cannot be nil")
	case s.fetcher == nil:
		return errors.Wrap(ErrInvalidIngestConfig, "fetcher cannot be nil")
	case s.repo == nil:
		return errors.Wrap(ErrInvalidIngestConfig, "repo cannot be nil")
	case len(s.symbols) == 0:
		return errors.Wrap(ErrInvalidIngestConfig, "symbols cannot be empty")
	default:
		return nil
	}
}

func NewIngestService(opts ...IngestOption) (*IngestService, error) {
	s := &IngestService{
		interval: 24 * time.Hour,
		lookback: 14 * 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	sched, err := tickerScheduler.New(
		tickerScheduler.WithName("price-ingest"),
		tickerScheduler.WithContext(s.ctx),
		tickerScheduler.WithLogger(s.logger),
		tickerScheduler.WithInterval(s.interval),
		tickerScheduler.WithHandler(s.Tick),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}
	s.scheduler = sched

	return s, nil
}

func (s *IngestService) Start() error {
	return s.scheduler.Start()
}

func (s *IngestService) Stop() {
	s.scheduler.Stop()
}

// Tick pulls the recent window for every configured symbol. The upsert key
// makes re-ingesting an already stored day harmless.
func (s *IngestService) Tick() error {
	now := time.Now()
	from := now.Add(-s.lookback)

	for _, symbol := range s.symbols {
		bars, err := s.fetcher.DailyHistory(symbol, from, now)
		if err != nil {
			s.logger.Error("failed to fetch daily bars", "symbol", symbol, "error", err)
			continue
		}

		var latest marketdata.Bar
		for _, bar := range bars {
			point := &models.PricePoint{
				Symbol:    bar.Symbol,
				Timestamp: bar.Timestamp,
				Open:      bar.Open,
				High:      bar.High,
				Low:       bar.Low,
				Close:     bar.Close,
				Volume:    bar.Volume,
			}
			if err := s.repo.UpsertPricePoint(point); err != nil {
				s.logger.Error("failed to upsert price point",
					"symbol", bar.Symbol,
					"timestamp", bar.Timestamp,
					"error", err,
				)
				continue
			}
			if bar.Timestamp.After(latest.Timestamp) {
				latest = bar
			}
		}

		if s.priceCache != nil && !latest.Timestamp.IsZero() {
			s.priceCache.Set(latest.Symbol, latest.Close)
		}

		s.logger.Info("ingested daily bars", "symbol", symbol, "count", len(bars))
	}

	return nil
}
