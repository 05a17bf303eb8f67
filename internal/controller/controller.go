package controller

import (
	"stockfolio/internal/analytics"
	"stockfolio/internal/ledger"
	"stockfolio/internal/repo"
	"stockfolio/pkg/types/cache"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalidControllerConfig = errors.New("invalid controller config")

// Controller translates HTTP requests into calls on the processor, the
// analytics engine and the repository, and renders their results as JSON.
type Controller struct {
	repo        *repo.Repository
	processor   *ledger.Processor
	engine      *analytics.Engine
	priceCache  cache.Cache[string, float64]
	defaultCash decimal.Decimal
}

type Option func(*Controller)

func WithRepository(r *repo.Repository) Option {
	return func(c *Controller) {
		c.repo = r
	}
}

func WithProcessor(p *ledger.Processor) Option {
	return func(c *Controller) {
		c.processor = p
	}
}

func WithAnalyticsEngine(e *analytics.Engine) Option {
	return func(c *Controller) {
		c.engine = e
	}
}

func WithPriceCache(pc cache.Cache[string, float64]) Option {
	return func(c *Controller) {
		c.priceCache = pc
	}
}

func WithDefaultCash(cash decimal.Decimal) Option {
	return func(c *Controller) {
		c.defaultCash = cash
	}
}

func (c *Controller) IsValid() error {
	switch {
	case c.repo == nil:
		return errors.Wrap(ErrInvalidControllerConfig, "repository cannot be nil")
	case c.processor == nil:
		return errors.Wrap(ErrInvalidControllerConfig, "processor cannot be nil")
	case c.engine == nil:
		return errors.Wrap(ErrInvalidControllerConfig, "analytics engine cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		defaultCash: decimal.NewFromInt(10000),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.IsValid(); err != nil {
		return nil, err
	}

	return c, nil
}
