package analytics

import (
	"log/slog"
	"slices"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"stockfolio/internal/repo"
)

var (
	ErrInvalidEngineConfig = errors.New("invalid analytics engine config")
	ErrNotEnoughData       = errors.New("not enough data")
	ErrDivisionByZero      = errors.New("division by zero")
)

// Engine derives risk statistics from the price store. All estimators use
// the unbiased n-1 denominator; results are returned unrounded.
type Engine struct {
	repo   *repo.Repository
	logger *slog.Logger
}

type EngineOption func(*Engine)

func WithRepository(r *repo.Repository) EngineOption {
	return func(e *Engine) {
		e.repo = r
	}
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

func (e *Engine) IsValid() error {
	switch {
	case e.repo == nil:
		return errors.Wrap(ErrInvalidEngineConfig, "repository cannot be nil")
	case e.logger == nil:
		return errors.Wrap(ErrInvalidEngineConfig, "logger cannot be nil")
	default:
		return nil
	}
}

func NewEngine(opts ...EngineOption) (*Engine, error) {
	e := &Engine{}

	for _, opt := range opts {
		opt(e)
	}

	if err := e.IsValid(); err != nil {
		return nil, err
	}

	return e, nil
}

// VarianceRatio reports sample variance divided by mean over a symbol's
// return series. Fails with ErrDivisionByZero when the mean is zero and
// ErrNotEnoughData when fewer than two returns exist.
func (e *Engine) VarianceRatio(symbol string) (float64, error) {
	points, err := e.repo.GetSeries(symbol, time.Time{}, time.Time{})
	if err != nil {
		return 0, err
	}

	var rs []float64
	for r := range Returns(points) {
		rs = append(rs, r.R)
	}
	if len(rs) < 2 {
		return 0, errors.Wrapf(ErrNotEnoughData, "%s has %d returns", symbol, len(rs))
	}

	mean := stat.Mean(rs, nil)
	if mean == 0 {
		return 0, errors.Wrapf(ErrDivisionByZero, "%s has zero mean return", symbol)
	}
	return stat.Variance(rs, nil) / mean, nil
}

// Beta regresses a symbol's returns against the market proxy: the
// equal-weight mean, at each timestamp, of every symbol's defined return.
// The regression runs over the inner join of timestamps where both the
// symbol and the proxy are defined. A nil result means beta is undefined
// because market variance is zero.
func (e *Engine) Beta(symbol string) (*float64, error) {
	points, err := e.repo.GetAllSeries()
	if err != nil {
		return nil, err
	}

	bySymbol := ReturnsBySymbol(points)
	target, ok := bySymbol[symbol]
	if !ok {
		return nil, errors.Wrapf(ErrNotEnoughData, "%s has no returns", symbol)
	}

	market := marketProxy(bySymbol)
	targetAt := make(map[int64]float64, len(target))
	for _, r := range target {
		targetAt[r.Timestamp.UnixNano()] = r.R
	}

	var matched []int64
	for ts := range targetAt {
		if _, ok := market[ts]; ok {
			matched = append(matched, ts)
		}
	}
	if len(matched) < 2 {
		return nil, errors.Wrapf(ErrNotEnoughData, "%s matches market at %d points", symbol, len(matched))
	}
	slices.Sort(matched)

	stock := make([]float64, len(matched))
	proxy := make([]float64, len(matched))
	for i, ts := range matched {
		stock[i] = targetAt[ts]
		proxy[i] = market[ts]
	}

	marketVar := stat.Variance(proxy, nil)
	if marketVar == 0 {
		e.logger.Warn("market variance is zero, beta undefined", "symbol", symbol)
		return nil, nil
	}

	beta := stat.Covariance(stock, proxy, nil) / marketVar
	return &beta, nil
}

// MatrixResult holds the covariance and Pearson correlation matrices over
// the strictly aligned return table, plus how many rows survived alignment.
type MatrixResult struct {
	Symbols     []string
	Covariance  map[string]map[string]float64
	Correlation map[string]map[string]float64
	Rows        int
}

// Matrices computes the sample covariance and correlation matrices for a
// set of symbols over the timestamps where every symbol has a defined
// return. A timestamp missing any one symbol's return is dropped entirely.
func (e *Engine) Matrices(symbols []string) (*MatrixResult, error) {
	if len(symbols) == 0 {
		return nil, errors.Wrap(ErrNotEnoughData, "no symbols")
	}
	symbols = slices.Clone(symbols)
	slices.Sort(symbols)

	points, err := e.repo.GetSeriesForSymbols(symbols)
	if err != nil {
		return nil, err
	}

	bySymbol := ReturnsBySymbol(points)
	at := make([]map[int64]float64, len(symbols))
	for i, sym := range symbols {
		at[i] = make(map[int64]float64, len(bySymbol[sym]))
		for _, r := range bySymbol[sym] {
			at[i][r.Timestamp.UnixNano()] = r.R
		}
	}

	// Strict intersection: a timestamp survives only if every symbol has a
	// return there.
	var aligned []int64
	for ts := range at[0] {
		all := true
		for _, m := range at[1:] {
			if _, ok := m[ts]; !ok {
				all = false
				break
			}
		}
		if all {
			aligned = append(aligned, ts)
		}
	}
	if len(aligned) < 2 {
		return nil, errors.Wrapf(ErrNotEnoughData, "aligned table has %d rows", len(aligned))
	}
	slices.Sort(aligned)

	table := mat.NewDense(len(aligned), len(symbols), nil)
	for i, ts := range aligned {
		for j := range symbols {
			table.Set(i, j, at[j][ts])
		}
	}

	cov := mat.NewSymDense(len(symbols), nil)
	stat.CovarianceMatrix(cov, table, nil)
	corr := mat.NewSymDense(len(symbols), nil)
	stat.CorrelationMatrix(corr, table, nil)

	return &MatrixResult{
		Symbols:     symbols,
		Covariance:  symMatrixToMap(symbols, cov),
		Correlation: symMatrixToMap(symbols, corr),
		Rows:        len(aligned),
	}, nil
}

// marketProxy averages, per timestamp, the returns of every symbol defined
// there.
func marketProxy(bySymbol map[string][]Return) map[int64]float64 {
	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, rs := range bySymbol {
		for _, r := range rs {
			ts := r.Timestamp.UnixNano()
			sums[ts] += r.R
			counts[ts]++
		}
	}
	proxy := make(map[int64]float64, len(sums))
	for ts, sum := range sums {
		proxy[ts] = sum / float64(counts[ts])
	}
	return proxy
}

func symMatrixToMap(symbols []string, m *mat.SymDense) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(symbols))
	for i, a := range symbols {
		row := make(map[string]float64, len(symbols))
		for j, b := range symbols {
			row[b] = m.At(i, j)
		}
		out[a] = row
	}
	return out
}
