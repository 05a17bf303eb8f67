package ledger

import (
	"github.com/shopspring/decimal"

	"stockfolio/internal/models"
)

// Request is the closed set of operations the processor accepts. Each
// variant carries only the fields its transaction type needs.
type Request interface {
	transactionType() models.TransactionType
}

// Deposit adds cash to a portfolio.
type Deposit struct {
	Cash decimal.Decimal
}

// Withdraw removes cash from a portfolio, bounded by its balance.
type Withdraw struct {
	Cash decimal.Decimal
}

// Buy purchases shares at the latest available close.
type Buy struct {
	Symbol string
	Shares int64
}

// Sell liquidates shares at the latest available close, bounded by the
// portfolio's holding.
type Sell struct {
	Symbol string
	Shares int64
}

func (Deposit) transactionType() models.TransactionType  { return models.TxCashDeposit }
func (Withdraw) transactionType() models.TransactionType { return models.TxCashWithdraw }
func (Buy) transactionType() models.TransactionType      { return models.TxStockBuy }
func (Sell) transactionType() models.TransactionType     { return models.TxStockSell }
