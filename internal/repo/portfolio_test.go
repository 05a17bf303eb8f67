package repo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPortfolio_CreateAndGet(t *testing.T) {
	r := setupTestRepo(t)

	p, err := r.CreatePortfolio(decimal.NewFromInt(10000))
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	got, err := r.GetPortfolio(p.ID)
	require.NoError(t, err)
	require.True(t, got.Cash.Equal(decimal.NewFromInt(10000)))
}

func TestPortfolio_NotFound(t *testing.T) {
	r := setupTestRepo(t)

	_, err := r.GetPortfolio(42)
	require.ErrorIs(t, err, ErrPortfolioNotFound)

	_, err = r.GetCash(42)
	require.ErrorIs(t, err, ErrPortfolioNotFound)

	err = r.SetCash(42, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrPortfolioNotFound)
}

func TestPortfolio_SetCash(t *testing.T) {
	r := setupTestRepo(t)

	p, err := r.CreatePortfolio(decimal.NewFromInt(100))
	require.NoError(t, err)

	require.NoError(t, r.SetCash(p.ID, decimal.RequireFromString("123.45")))

	cash, err := r.GetCash(p.ID)
	require.NoError(t, err)
	require.True(t, cash.Equal(decimal.RequireFromString("123.45")))
}

func TestPortfolio_GetAll(t *testing.T) {
	r := setupTestRepo(t)

	_, err := r.CreatePortfolio(decimal.NewFromInt(1))
	require.NoError(t, err)
	_, err = r.CreatePortfolio(decimal.NewFromInt(2))
	require.NoError(t, err)

	all, err := r.GetAllPortfolios()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Less(t, all[0].ID, all[1].ID)
}
