package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stockfolio/internal/analytics"
	"stockfolio/internal/controller"
	"stockfolio/internal/ledger"
	"stockfolio/internal/repo"
	"stockfolio/pkg/types/cache"
)

var (
	ErrNilEngine     = errors.New("engine is required")
	ErrNilRepository = errors.New("repository is required")
	ErrNilProcessor  = errors.New("processor is required")
	ErrNilAnalytics  = errors.New("analytics engine is required")
)

type Handler struct {
	engine      *gin.Engine
	repository  *repo.Repository
	processor   *ledger.Processor
	analytics   *analytics.Engine
	priceCache  cache.Cache[string, float64]
	defaultCash decimal.Decimal
}

func (h *Handler) IsValid() error {
	switch {
	case h.engine == nil:
		return ErrNilEngine
	case h.repository == nil:
		return ErrNilRepository
	case h.processor == nil:
		return ErrNilProcessor
	case h.analytics == nil:
		return ErrNilAnalytics
	default:
		return nil
	}
}

type Option func(*Handler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *Handler) {
		h.engine = engine
	}
}

func WithRepository(repository *repo.Repository) Option {
	return func(h *Handler) {
		h.repository = repository
	}
}

func WithProcessor(p *ledger.Processor) Option {
	return func(h *Handler) {
		h.processor = p
	}
}

func WithAnalyticsEngine(e *analytics.Engine) Option {
	return func(h *Handler) {
		h.analytics = e
	}
}

func WithPriceCache(pc cache.Cache[string, float64]) Option {
	return func(h *Handler) {
		h.priceCache = pc
	}
}

func WithDefaultCash(cash decimal.Decimal) Option {
	return func(h *Handler) {
		h.defaultCash = cash
	}
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{
		defaultCash: decimal.NewFromInt(10000),
	}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.IsValid(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handler) Setup() error {
	ctrl, err := controller.New(
		controller.WithRepository(h.repository),
		controller.WithProcessor(h.processor),
		controller.WithAnalyticsEngine(h.analytics),
		controller.WithPriceCache(h.priceCache),
		controller.WithDefaultCash(h.defaultCash),
	)
	if err != nil {
		return err
	}

	h.engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := h.engine.Group("/api")

	portfolios := api.Group("/portfolios")
	portfolios.POST("", ctrl.CreatePortfolio)
	portfolios.GET("", ctrl.ListPortfolios)
	portfolios.GET("/:id", ctrl.GetPortfolio)
	portfolios.GET("/:id/transactions", ctrl.ListTransactions)
	portfolios.POST("/:id/transactions", ctrl.CreateTransaction)
	portfolios.GET("/:id/variance", ctrl.GetVariance)
	portfolios.GET("/:id/beta", ctrl.GetBeta)
	portfolios.GET("/:id/matrix", ctrl.GetMatrices)

	stocks := api.Group("/stocks")
	stocks.POST("", ctrl.AddStock)
	stocks.GET("/:symbol", ctrl.GetStockHistory)
	stocks.GET("/:symbol/latest", ctrl.GetLatestQuote)

	return nil
}
