package stooqdaily

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stockfolio/pkg/types/marketdata"
)

var _ marketdata.Fetcher = (*Fetcher)(nil)

// Fetcher pulls daily OHLCV bars from stooq.com, which serves history as
// plain CSV without an API key.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
	// Suffix is appended to symbols, e.g. ".us" for US listings.
	Suffix string
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		BaseURL: "https://stooq.com/q/d/l/",
		Client:  &http.Client{Timeout: 15 * time.Second},
		Suffix:  ".us",
	}
}

func (f *Fetcher) DailyHistory(symbol string, from, to time.Time) ([]marketdata.Bar, error) {
	endpoint := fmt.Sprintf("%s?s=%s&i=d", f.BaseURL, strings.ToLower(symbol)+f.Suffix)
	if !from.IsZero() {
		endpoint += "&d1=" + from.Format("20060102")
	}
	if !to.IsZero() {
		endpoint += "&d2=" + to.Format("20060102")
	}

	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return parseCSV(symbol, resp.Body)
}

// parseCSV reads stooq's Date,Open,High,Low,Close,Volume layout. Rows with
// missing or unparsable fields are skipped; the vendor emits "N/D" on
// no-trade days.
func parseCSV(symbol string, r io.Reader) ([]marketdata.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no price data for %s", symbol)
	}

	bars := make([]marketdata.Bar, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 6 {
			continue
		}
		ts, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			continue
		}
		open, err1 := strconv.ParseFloat(rec[1], 64)
		high, err2 := strconv.ParseFloat(rec[2], 64)
		low, err3 := strconv.ParseFloat(rec[3], 64)
		closePx, err4 := strconv.ParseFloat(rec[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		volume, _ := strconv.ParseInt(rec[5], 10, 64)

		bars = append(bars, marketdata.Bar{
			Symbol:    strings.ToUpper(symbol),
			Timestamp: ts,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePx,
			Volume:    volume,
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no usable price rows for %s", symbol)
	}
	return bars, nil
}
