package repo

import (
	"time"

	"stockfolio/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LatestClose returns the most recent price row for a symbol at or before
// asOf. The (symbol, timestamp) primary key guarantees at most one row per
// instant, so the choice is deterministic.
func (r *Repository) LatestClose(symbol string, asOf time.Time) (*models.PricePoint, error) {
	var p models.PricePoint
	err := r.db.Where("symbol = ? AND timestamp <= ?", symbol, asOf).
		Order("timestamp DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPriceNotFound
		}
		return nil, errors.Wrap(err, "latest close")
	}
	return &p, nil
}

// GetSeries returns a symbol's price history in ascending timestamp order.
func (r *Repository) GetSeries(symbol string, from, to time.Time) ([]models.PricePoint, error) {
	query := r.db.Where("symbol = ?", symbol)
	if !from.IsZero() {
		query = query.Where("timestamp >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("timestamp <= ?", to)
	}
	var points []models.PricePoint
	if err := query.Order("timestamp ASC").Find(&points).Error; err != nil {
		return nil, errors.Wrap(err, "get series")
	}
	return points, nil
}

// GetSeriesForSymbols returns price history for a set of symbols, ordered by
// symbol then ascending timestamp, ready for per-symbol return computation.
func (r *Repository) GetSeriesForSymbols(symbols []string) ([]models.PricePoint, error) {
	var points []models.PricePoint
	err := r.db.Where("symbol IN ?", symbols).
		Order("symbol ASC, timestamp ASC").
		Find(&points).Error
	if err != nil {
		return nil, errors.Wrap(err, "get series for symbols")
	}
	return points, nil
}

// GetAllSeries returns every price row, ordered by symbol then ascending
// timestamp. The analytics engine uses it to build the market proxy.
func (r *Repository) GetAllSeries() ([]models.PricePoint, error) {
	var points []models.PricePoint
	err := r.db.Order("symbol ASC, timestamp ASC").Find(&points).Error
	if err != nil {
		return nil, errors.Wrap(err, "get all series")
	}
	return points, nil
}

// UpsertPricePoint inserts a daily bar, replacing the OHLCV fields when a row
// with the same (symbol, timestamp) key already exists.
func (r *Repository) UpsertPricePoint(p *models.PricePoint) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).Create(p).Error
	return errors.Wrap(err, "upsert price point")
}
