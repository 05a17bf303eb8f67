package repo

import (
	"errors"

	"stockfolio/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNilDatabase       = errors.New("database cannot be nil")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrHoldingNotFound   = errors.New("holding not found")
	ErrPriceNotFound     = errors.New("price not found")
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.Portfolio{},
		&models.Holding{},
		&models.Transaction{},
		&models.PricePoint{},
	)
}

// WithTransaction runs fn against a repository bound to a single database
// transaction. If fn returns an error every statement it issued is rolled
// back; otherwise the transaction commits. Nested calls join the outer
// transaction.
func (r *Repository) WithTransaction(fn func(tx *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}
