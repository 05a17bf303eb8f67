package repo

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	r, err := New(db)
	require.NoError(t, err)
	require.NoError(t, r.Migrate())
	return r
}

func TestNew_NilDatabase(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilDatabase)
}

func TestWithTransaction_Commit(t *testing.T) {
	r := setupTestRepo(t)

	var id int64
	err := r.WithTransaction(func(tx *Repository) error {
		p, err := tx.CreatePortfolio(decimal.NewFromInt(100))
		if err != nil {
			return err
		}
		id = p.ID
		return tx.SetCash(p.ID, decimal.NewFromInt(250))
	})
	require.NoError(t, err)

	cash, err := r.GetCash(id)
	require.NoError(t, err)
	require.True(t, cash.Equal(decimal.NewFromInt(250)))
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	r := setupTestRepo(t)

	p, err := r.CreatePortfolio(decimal.NewFromInt(100))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = r.WithTransaction(func(tx *Repository) error {
		if err := tx.SetCash(p.ID, decimal.NewFromInt(999)); err != nil {
			return err
		}
		if err := tx.AddShares(p.ID, "AAPL", 5); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	cash, err := r.GetCash(p.ID)
	require.NoError(t, err)
	require.True(t, cash.Equal(decimal.NewFromInt(100)), "cash must be rolled back")

	_, err = r.GetHolding(p.ID, "AAPL")
	require.ErrorIs(t, err, ErrHoldingNotFound, "holding insert must be rolled back")
}
