package repo

import (
	"stockfolio/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) GetHolding(portfolioID int64, symbol string) (*models.Holding, error) {
	var h models.Holding
	err := r.db.Where("portfolio_id = ? AND symbol = ?", portfolioID, symbol).First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHoldingNotFound
		}
		return nil, errors.Wrap(err, "get holding")
	}
	return &h, nil
}

func (r *Repository) GetHoldings(portfolioID int64) ([]models.Holding, error) {
	var holdings []models.Holding
	err := r.db.Where("portfolio_id = ?", portfolioID).Order("symbol ASC").Find(&holdings).Error
	if err != nil {
		return nil, errors.Wrap(err, "list holdings")
	}
	return holdings, nil
}

// AddShares inserts a holding row or adds to the existing share count
// (insert-or-accumulate upsert keyed on portfolio_id, symbol).
func (r *Repository) AddShares(portfolioID int64, symbol string, shares int64) error {
	h := models.Holding{PortfolioID: portfolioID, Symbol: symbol, Shares: shares}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "portfolio_id"}, {Name: "symbol"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"shares": gorm.Expr("holdings.shares + excluded.shares"),
		}),
	}).Create(&h).Error
	return errors.Wrap(err, "add shares")
}

func (r *Repository) SetShares(portfolioID int64, symbol string, shares int64) error {
	res := r.db.Model(&models.Holding{}).
		Where("portfolio_id = ? AND symbol = ?", portfolioID, symbol).
		Update("shares", shares)
	if res.Error != nil {
		return errors.Wrap(res.Error, "set shares")
	}
	if res.RowsAffected == 0 {
		return ErrHoldingNotFound
	}
	return nil
}

func (r *Repository) DeleteHolding(portfolioID int64, symbol string) error {
	err := r.db.Where("portfolio_id = ? AND symbol = ?", portfolioID, symbol).
		Delete(&models.Holding{}).Error
	return errors.Wrap(err, "delete holding")
}
