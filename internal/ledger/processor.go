package ledger

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"stockfolio/internal/models"
	"stockfolio/internal/repo"
)

var (
	ErrInvalidProcessorConfig = errors.New("invalid processor config")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInsufficientShares     = errors.New("insufficient shares")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidShares          = errors.New("shares must be positive")
	ErrUnknownRequest         = errors.New("unknown transaction request")
)

// Processor validates transaction requests and applies them to the cash,
// holding and ledger tables as one atomic unit. It is the only writer of
// portfolio state.
type Processor struct {
	repo   *repo.Repository
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

type ProcessorOption func(*Processor)

func WithRepository(r *repo.Repository) ProcessorOption {
	return func(p *Processor) {
		p.repo = r
	}
}

func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = l
	}
}

// WithClock overrides the transaction timestamp source, used by tests.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		p.now = now
	}
}

func (p *Processor) IsValid() error {
	switch {
	case p.repo == nil:
		return errors.Wrap(ErrInvalidProcessorConfig, "repository cannot be nil")
	case p.logger == nil:
		return errors.Wrap(ErrInvalidProcessorConfig, "logger cannot be nil")
	default:
		return nil
	}
}

func NewProcessor(opts ...ProcessorOption) (*Processor, error) {
	p := &Processor{
		now:   time.Now,
		locks: make(map[int64]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.IsValid(); err != nil {
		return nil, err
	}

	return p, nil
}

// portfolioLock serializes requests against one portfolio so that a balance
// or share-count check cannot interleave with another request's write.
func (p *Processor) portfolioLock(portfolioID int64) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[portfolioID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[portfolioID] = lock
	}
	return lock
}

// Process applies one transaction request. On any validation or storage
// failure the portfolio's cash, holdings and ledger are left untouched.
func (p *Processor) Process(portfolioID int64, username string, req Request) (*models.Transaction, error) {
	lock := p.portfolioLock(portfolioID)
	lock.Lock()
	defer lock.Unlock()

	var entry *models.Transaction
	err := p.repo.WithTransaction(func(tx *repo.Repository) error {
		cash, err := tx.GetCash(portfolioID)
		if err != nil {
			return err
		}

		switch r := req.(type) {
		case Deposit:
			entry, err = p.applyDeposit(tx, portfolioID, username, cash, r)
		case Withdraw:
			entry, err = p.applyWithdraw(tx, portfolioID, username, cash, r)
		case Buy:
			entry, err = p.applyBuy(tx, portfolioID, username, cash, r)
		case Sell:
			entry, err = p.applySell(tx, portfolioID, username, cash, r)
		default:
			err = errors.Wrapf(ErrUnknownRequest, "%T", req)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("transaction applied",
		"portfolio_id", portfolioID,
		"type", entry.Type,
		"amount", entry.Amount,
	)
	return entry, nil
}

func (p *Processor) applyDeposit(tx *repo.Repository, portfolioID int64, username string, cash decimal.Decimal, req Deposit) (*models.Transaction, error) {
	if !req.Cash.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := tx.SetCash(portfolioID, cash.Add(req.Cash)); err != nil {
		return nil, err
	}
	return p.record(tx, &models.Transaction{
		PortfolioID: portfolioID,
		Username:    username,
		Type:        models.TxCashDeposit,
		Amount:      req.Cash,
	})
}

func (p *Processor) applyWithdraw(tx *repo.Repository, portfolioID int64, username string, cash decimal.Decimal, req Withdraw) (*models.Transaction, error) {
	if !req.Cash.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if cash.LessThan(req.Cash) {
		return nil, errors.Wrapf(ErrInsufficientFunds, "cash %s, requested %s", cash, req.Cash)
	}
	if err := tx.SetCash(portfolioID, cash.Sub(req.Cash)); err != nil {
		return nil, err
	}
	return p.record(tx, &models.Transaction{
		PortfolioID: portfolioID,
		Username:    username,
		Type:        models.TxCashWithdraw,
		Amount:      req.Cash.Neg(),
	})
}

func (p *Processor) applyBuy(tx *repo.Repository, portfolioID int64, username string, cash decimal.Decimal, req Buy) (*models.Transaction, error) {
	if req.Shares <= 0 {
		return nil, ErrInvalidShares
	}
	cost, err := p.quote(tx, req.Symbol, req.Shares)
	if err != nil {
		return nil, err
	}
	if cash.LessThan(cost) {
		return nil, errors.Wrapf(ErrInsufficientFunds, "cash %s, cost %s", cash, cost)
	}
	if err := tx.SetCash(portfolioID, cash.Sub(cost)); err != nil {
		return nil, err
	}
	if err := tx.AddShares(portfolioID, req.Symbol, req.Shares); err != nil {
		return nil, err
	}
	return p.record(tx, &models.Transaction{
		PortfolioID: portfolioID,
		Username:    username,
		Type:        models.TxStockBuy,
		Amount:      cost.Neg(),
		Symbol:      req.Symbol,
		Shares:      req.Shares,
	})
}

func (p *Processor) applySell(tx *repo.Repository, portfolioID int64, username string, cash decimal.Decimal, req Sell) (*models.Transaction, error) {
	if req.Shares <= 0 {
		return nil, ErrInvalidShares
	}
	holding, err := tx.GetHolding(portfolioID, req.Symbol)
	if err != nil {
		return nil, err
	}
	if holding.Shares < req.Shares {
		return nil, errors.Wrapf(ErrInsufficientShares, "held %d, requested %d", holding.Shares, req.Shares)
	}
	proceeds, err := p.quote(tx, req.Symbol, req.Shares)
	if err != nil {
		return nil, err
	}
	if err := tx.SetCash(portfolioID, cash.Add(proceeds)); err != nil {
		return nil, err
	}
	remaining := holding.Shares - req.Shares
	if remaining == 0 {
		err = tx.DeleteHolding(portfolioID, req.Symbol)
	} else {
		err = tx.SetShares(portfolioID, req.Symbol, remaining)
	}
	if err != nil {
		return nil, err
	}
	return p.record(tx, &models.Transaction{
		PortfolioID: portfolioID,
		Username:    username,
		Type:        models.TxStockSell,
		Amount:      proceeds,
		Symbol:      req.Symbol,
		Shares:      req.Shares,
	})
}

// quote prices a trade at the latest available close for the symbol.
func (p *Processor) quote(tx *repo.Repository, symbol string, shares int64) (decimal.Decimal, error) {
	point, err := tx.LatestClose(symbol, p.now())
	if err != nil {
		return decimal.Zero, err
	}
	price := decimal.NewFromFloat(point.Close)
	return price.Mul(decimal.NewFromInt(shares)), nil
}

func (p *Processor) record(tx *repo.Repository, entry *models.Transaction) (*models.Transaction, error) {
	entry.Timestamp = p.now()
	if err := tx.RecordTransaction(entry); err != nil {
		return nil, err
	}
	return entry, nil
}
