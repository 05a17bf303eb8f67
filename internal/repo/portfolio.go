package repo

import (
	"stockfolio/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (r *Repository) CreatePortfolio(initialCash decimal.Decimal) (*models.Portfolio, error) {
	p := &models.Portfolio{Cash: initialCash}
	if err := r.db.Create(p).Error; err != nil {
		return nil, errors.Wrap(err, "create portfolio")
	}
	return p, nil
}

func (r *Repository) GetPortfolio(id int64) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioNotFound
		}
		return nil, errors.Wrap(err, "get portfolio")
	}
	return &p, nil
}

func (r *Repository) GetAllPortfolios() ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	if err := r.db.Order("id ASC").Find(&portfolios).Error; err != nil {
		return nil, errors.Wrap(err, "list portfolios")
	}
	return portfolios, nil
}

// GetCash reads a portfolio's cash balance, failing with ErrPortfolioNotFound
// when there is no such portfolio.
func (r *Repository) GetCash(id int64) (decimal.Decimal, error) {
	p, err := r.GetPortfolio(id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Cash, nil
}

func (r *Repository) SetCash(id int64, cash decimal.Decimal) error {
	res := r.db.Model(&models.Portfolio{}).Where("id = ?", id).Update("cash", cash)
	if res.Error != nil {
		return errors.Wrap(res.Error, "set cash")
	}
	if res.RowsAffected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}
