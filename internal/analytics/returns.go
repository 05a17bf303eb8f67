package analytics

import (
	"iter"
	"time"

	"stockfolio/internal/models"
)

// Return is the fractional close-to-close price change of one symbol at one
// observation. Derived on the fly, never persisted.
type Return struct {
	Symbol    string
	Timestamp time.Time
	R         float64
}

// Returns yields single-period returns over a price series ordered by
// ascending timestamp. Symbols are partitioned independently: one symbol's
// gaps never shift another symbol's returns. A symbol's first observation,
// and any observation whose prior close is zero, yields no return. The
// sequence is restartable; each range loop walks the series from the start.
func Returns(points []models.PricePoint) iter.Seq[Return] {
	return func(yield func(Return) bool) {
		prev := make(map[string]float64, 8)
		for _, p := range points {
			last, ok := prev[p.Symbol]
			prev[p.Symbol] = p.Close
			if !ok || last == 0 {
				continue
			}
			r := Return{Symbol: p.Symbol, Timestamp: p.Timestamp, R: p.Close/last - 1}
			if !yield(r) {
				return
			}
		}
	}
}

// ReturnsBySymbol materializes the return sequence grouped per symbol,
// preserving ascending timestamp order within each symbol.
func ReturnsBySymbol(points []models.PricePoint) map[string][]Return {
	grouped := make(map[string][]Return)
	for r := range Returns(points) {
		grouped[r.Symbol] = append(grouped[r.Symbol], r)
	}
	return grouped
}
