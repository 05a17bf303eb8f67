package analytics

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gorm.io/gorm"

	"stockfolio/internal/models"
	"stockfolio/internal/repo"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupEngine(t *testing.T) (*Engine, *repo.Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	r, err := repo.New(db)
	require.NoError(t, err)
	require.NoError(t, r.Migrate())

	e, err := NewEngine(
		WithRepository(r),
		WithLogger(discardLogger),
	)
	require.NoError(t, err)
	return e, r
}

func seedCloses(t *testing.T, r *repo.Repository, symbol string, closes ...float64) {
	t.Helper()
	for i, c := range closes {
		require.NoError(t, r.UpsertPricePoint(&models.PricePoint{
			Symbol:    symbol,
			Timestamp: day(2024, 1, 2).AddDate(0, 0, i),
			Close:     c,
			Volume:    1000,
		}))
	}
}

func seedClose(t *testing.T, r *repo.Repository, symbol string, ts time.Time, close float64) {
	t.Helper()
	require.NoError(t, r.UpsertPricePoint(&models.PricePoint{
		Symbol:    symbol,
		Timestamp: ts,
		Close:     close,
		Volume:    1000,
	}))
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	_, err := NewEngine(WithLogger(discardLogger))
	require.ErrorIs(t, err, ErrInvalidEngineConfig)
}

func TestVarianceRatio(t *testing.T) {
	e, r := setupEngine(t)
	seedCloses(t, r, "AAPL", 100, 110, 99)

	got, err := e.VarianceRatio("AAPL")
	require.NoError(t, err)

	// Compute the expected returns from float64 variables so the division
	// happens at runtime like the engine's, not as exact constant folding.
	closes := []float64{100, 110, 99}
	rs := []float64{closes[1]/closes[0] - 1, closes[2]/closes[1] - 1}
	want := stat.Variance(rs, nil) / stat.Mean(rs, nil)
	require.InDelta(t, want, got, 1e-15)
}

func TestVarianceRatio_NotEnoughData(t *testing.T) {
	e, r := setupEngine(t)

	_, err := e.VarianceRatio("AAPL")
	require.ErrorIs(t, err, ErrNotEnoughData)

	seedCloses(t, r, "AAPL", 100, 110)
	_, err = e.VarianceRatio("AAPL")
	require.ErrorIs(t, err, ErrNotEnoughData, "one return is not enough for sample variance")
}

func TestVarianceRatio_ZeroMean(t *testing.T) {
	e, r := setupEngine(t)
	// returns +0.5 then -0.5: mean is exactly zero
	seedCloses(t, r, "AAPL", 100, 150, 75)

	_, err := e.VarianceRatio("AAPL")
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestBeta_SingleSymbolIsOne(t *testing.T) {
	e, r := setupEngine(t)
	seedCloses(t, r, "AAPL", 100, 110, 99, 105)

	// with one symbol the market proxy equals the symbol's own returns
	beta, err := e.Beta("AAPL")
	require.NoError(t, err)
	require.NotNil(t, beta)
	require.InDelta(t, 1.0, *beta, 1e-12)
}

func TestBeta_KnownValue(t *testing.T) {
	e, r := setupEngine(t)
	seedCloses(t, r, "AAPL", 100, 110, 99, 105)
	seedCloses(t, r, "MSFT", 400, 420, 410, 430)

	aapl := []float64{110.0/100.0 - 1, 99.0/110.0 - 1, 105.0/99.0 - 1}
	msft := []float64{420.0/400.0 - 1, 410.0/420.0 - 1, 430.0/410.0 - 1}
	market := make([]float64, 3)
	for i := range market {
		market[i] = (aapl[i] + msft[i]) / 2
	}
	want := stat.Covariance(aapl, market, nil) / stat.Variance(market, nil)

	beta, err := e.Beta("AAPL")
	require.NoError(t, err)
	require.NotNil(t, beta)
	require.InDelta(t, want, *beta, 1e-12)
}

func TestBeta_ZeroMarketVarianceUndefined(t *testing.T) {
	e, r := setupEngine(t)
	// doubling closes give exactly equal returns of 1.0: market variance zero
	seedCloses(t, r, "AAPL", 100, 200, 400)

	beta, err := e.Beta("AAPL")
	require.NoError(t, err, "degenerate market is not an error")
	require.Nil(t, beta, "beta must be reported undefined, not 0 or NaN")
}

func TestBeta_NotEnoughData(t *testing.T) {
	e, r := setupEngine(t)
	seedCloses(t, r, "AAPL", 100, 110)

	_, err := e.Beta("AAPL")
	require.ErrorIs(t, err, ErrNotEnoughData)

	_, err = e.Beta("ZZZZ")
	require.ErrorIs(t, err, ErrNotEnoughData)
}

func TestBeta_IntersectionJoin(t *testing.T) {
	e, r := setupEngine(t)
	// AAPL trades every day; MSFT misses Jan 4, so its return chain differs
	seedCloses(t, r, "AAPL", 100, 110, 99, 105, 112)
	seedClose(t, r, "MSFT", day(2024, 1, 2), 400)
	seedClose(t, r, "MSFT", day(2024, 1, 3), 420)
	seedClose(t, r, "MSFT", day(2024, 1, 5), 410)
	seedClose(t, r, "MSFT", day(2024, 1, 6), 430)

	beta, err := e.Beta("MSFT")
	require.NoError(t, err)
	require.NotNil(t, beta)
	// the matched set is MSFT's own return dates; the computation must not
	// mis-align by padding the gap
	require.False(t, *beta != *beta, "beta must not be NaN")
}

func TestMatrices_StrictAlignment(t *testing.T) {
	e, r := setupEngine(t)
	// A has returns at Jan 3,4,5; B misses Jan 4 so it has returns at Jan 3
	// (from Jan 2) and Jan 5 (from Jan 3... gap means from Jan 3's close)
	seedCloses(t, r, "A", 100, 110, 99, 105)
	seedClose(t, r, "B", day(2024, 1, 2), 50)
	seedClose(t, r, "B", day(2024, 1, 3), 55)
	seedClose(t, r, "B", day(2024, 1, 5), 60)

	res, err := e.Matrices([]string{"A", "B"})
	require.NoError(t, err)
	// intersection of defined timestamps: Jan 3 and Jan 5 only; Jan 4 is
	// dropped entirely even though A has a return there
	require.Equal(t, 2, res.Rows)
	require.Equal(t, []string{"A", "B"}, res.Symbols)
}

func TestMatrices_Values(t *testing.T) {
	e, r := setupEngine(t)
	seedCloses(t, r, "A", 100, 110, 99, 105)
	seedCloses(t, r, "B", 400, 420, 410, 430)

	res, err := e.Matrices([]string{"B", "A"})
	require.NoError(t, err)
	require.Equal(t, 3, res.Rows)

	a := []float64{110.0/100.0 - 1, 99.0/110.0 - 1, 105.0/99.0 - 1}
	b := []float64{420.0/400.0 - 1, 410.0/420.0 - 1, 430.0/410.0 - 1}

	require.InDelta(t, stat.Variance(a, nil), res.Covariance["A"]["A"], 1e-15)
	require.InDelta(t, stat.Variance(b, nil), res.Covariance["B"]["B"], 1e-15)
	require.InDelta(t, stat.Covariance(a, b, nil), res.Covariance["A"]["B"], 1e-15)
	require.InDelta(t, res.Covariance["A"]["B"], res.Covariance["B"]["A"], 1e-15)

	require.InDelta(t, 1.0, res.Correlation["A"]["A"], 1e-12)
	require.InDelta(t, stat.Correlation(a, b, nil), res.Correlation["A"]["B"], 1e-12)
}

func TestMatrices_NotEnoughData(t *testing.T) {
	e, r := setupEngine(t)
	seedCloses(t, r, "A", 100, 110, 99)
	// B shares only one return timestamp with A
	seedClose(t, r, "B", day(2024, 1, 2), 50)
	seedClose(t, r, "B", day(2024, 1, 3), 55)

	_, err := e.Matrices([]string{"A", "B"})
	require.ErrorIs(t, err, ErrNotEnoughData)

	_, err = e.Matrices(nil)
	require.ErrorIs(t, err, ErrNotEnoughData)
}
