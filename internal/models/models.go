package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates the financial events the ledger records.
type TransactionType string

const (
	TxCashDeposit  TransactionType = "cash_deposit"
	TxCashWithdraw TransactionType = "cash_withdraw"
	TxStockBuy     TransactionType = "stock_buy"
	TxStockSell    TransactionType = "stock_sell"
)

type Portfolio struct {
	ID        int64           `json:"id"         gorm:"primaryKey"`
	Cash      decimal.Decimal `json:"cash"       gorm:"type:numeric"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Holding is the share count a portfolio has in one symbol. A row exists
// only while shares > 0; selling down to zero deletes the row.
type Holding struct {
	PortfolioID int64     `json:"portfolio_id" gorm:"primaryKey;autoIncrement:false"`
	Symbol      string    `json:"symbol"       gorm:"primaryKey"`
	Shares      int64     `json:"shares"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Transaction is an immutable ledger entry. Amount is signed: negative for
// outflows (buys, withdrawals), positive for inflows.
type Transaction struct {
	ID          int64           `json:"id"                 gorm:"primaryKey"`
	PortfolioID int64           `json:"portfolio_id"       gorm:"index"`
	Username    string          `json:"username"`
	Type        TransactionType `json:"type"               gorm:"index"`
	Amount      decimal.Decimal `json:"amount"             gorm:"type:numeric"`
	Symbol      string          `json:"symbol,omitempty"`
	Shares      int64           `json:"shares,omitempty"`
	Timestamp   time.Time       `json:"timestamp"          gorm:"index"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PricePoint is one daily bar. The (symbol, timestamp) key makes price
// lookups deterministic: there is never more than one row per instant.
type PricePoint struct {
	Symbol    string    `json:"symbol"     gorm:"primaryKey"`
	Timestamp time.Time `json:"timestamp"  gorm:"primaryKey"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	CreatedAt time.Time `json:"created_at"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

func (Holding) TableName() string {
	return "holdings"
}

func (Transaction) TableName() string {
	return "transactions"
}

func (PricePoint) TableName() string {
	return "prices"
}
