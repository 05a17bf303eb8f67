package marketdata

import "time"

// Bar is one daily OHLCV observation as delivered by an upstream source.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Fetcher pulls daily price history for one symbol. Implementations wrap
// a specific market-data vendor.
type Fetcher interface {
	DailyHistory(symbol string, from, to time.Time) ([]Bar, error)
}
