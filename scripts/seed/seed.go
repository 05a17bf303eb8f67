package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"
)

const baseURL = "http://localhost:8080/api"

type stock struct {
	Symbol    string  `json:"symbol"`
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

type transaction struct {
	Type     string `json:"type"`
	Cash     string `json:"cash,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Shares   int64  `json:"shares,omitempty"`
	Username string `json:"username"`
}

func main() {
	seedPrices("AAPL", 180, 0.012)
	seedPrices("MSFT", 410, 0.009)
	seedPrices("NVDA", 120, 0.025)

	portfolioID := createPortfolio()
	fmt.Printf("Created portfolio %d\n", portfolioID)

	post(fmt.Sprintf("/portfolios/%d/transactions", portfolioID), transaction{
		Type: "cash_deposit", Cash: "50000", Username: "seed",
	})
	post(fmt.Sprintf("/portfolios/%d/transactions", portfolioID), transaction{
		Type: "stock_buy", Symbol: "AAPL", Shares: 25, Username: "seed",
	})
	post(fmt.Sprintf("/portfolios/%d/transactions", portfolioID), transaction{
		Type: "stock_buy", Symbol: "MSFT", Shares: 10, Username: "seed",
	})
	post(fmt.Sprintf("/portfolios/%d/transactions", portfolioID), transaction{
		Type: "stock_buy", Symbol: "NVDA", Shares: 40, Username: "seed",
	})

	fmt.Println("Seed complete")
}

// seedPrices writes 30 daily bars with a deterministic wobble around base.
func seedPrices(symbol string, base, vol float64) {
	start := time.Now().AddDate(0, 0, -30)
	price := base
	for i := 0; i < 30; i++ {
		day := start.AddDate(0, 0, i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		move := vol * math.Sin(float64(i)*1.3)
		open := price
		price = price * (1 + move)
		high := math.Max(open, price) * 1.004
		low := math.Min(open, price) * 0.996

		post("/stocks", stock{
			Symbol:    symbol,
			Timestamp: day.Format("2006-01-02"),
			Open:      round2(open),
			High:      round2(high),
			Low:       round2(low),
			Close:     round2(price),
			Volume:    1_000_000 + int64(i)*37_000,
		})
	}
	fmt.Printf("Seeded prices for %s\n", symbol)
}

func createPortfolio() int64 {
	resp, err := http.Post(baseURL+"/portfolios", "application/json", nil)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Fatal(err)
	}
	return created.ID
}

func post(path string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Fatal(err)
	}
	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s returned %d", path, resp.StatusCode)
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
