package repo

import (
	"stockfolio/internal/models"

	"github.com/pkg/errors"
)

// RecordTransaction appends an entry to the ledger. Entries are immutable;
// there is deliberately no update or delete counterpart.
func (r *Repository) RecordTransaction(tx *models.Transaction) error {
	return errors.Wrap(r.db.Create(tx).Error, "record transaction")
}

func (r *Repository) GetTransactions(portfolioID int64) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("portfolio_id = ?", portfolioID).
		Order("timestamp DESC, id DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return transactions, nil
}

// GetTransactionsAscending returns a portfolio's full ledger in append order,
// the order a replay must use.
func (r *Repository) GetTransactionsAscending(portfolioID int64) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("portfolio_id = ?", portfolioID).
		Order("id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return transactions, nil
}
