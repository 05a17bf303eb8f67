package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stockfolio/internal/models"
)

func (c *Controller) GetStockHistory(ctx *gin.Context) {
	symbol := strings.ToUpper(ctx.Param("symbol"))

	var from, to time.Time
	if s := ctx.Query("from"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			from = parsed
		}
	}
	if s := ctx.Query("to"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			to = parsed
		}
	}

	points, err := c.repo.GetSeries(symbol, from, to)
	if err != nil {
		internalError(ctx, "Failed to fetch price history")
		return
	}
	if len(points) == 0 {
		notFound(ctx, "No prices found for "+symbol)
		return
	}
	ctx.JSON(http.StatusOK, points)
}

type latestQuote struct {
	Symbol string  `json:"symbol"`
	Close  float64 `json:"close"`
	Cached bool    `json:"cached"`
}

// GetLatestQuote serves the most recent close, preferring the ingest cache
// over a storage read.
func (c *Controller) GetLatestQuote(ctx *gin.Context) {
	symbol := strings.ToUpper(ctx.Param("symbol"))

	if c.priceCache != nil {
		if close, ok := c.priceCache.Get(symbol); ok {
			ctx.JSON(http.StatusOK, latestQuote{Symbol: symbol, Close: close, Cached: true})
			return
		}
	}

	point, err := c.repo.LatestClose(symbol, time.Now())
	if err != nil {
		domainError(ctx, err)
		return
	}
	if c.priceCache != nil {
		c.priceCache.Set(symbol, point.Close)
	}
	ctx.JSON(http.StatusOK, latestQuote{Symbol: symbol, Close: point.Close})
}

type addStockRequest struct {
	Symbol    string  `json:"symbol"    binding:"required"`
	Timestamp string  `json:"timestamp" binding:"required"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"     binding:"required"`
	Volume    int64   `json:"volume"`
}

// AddStock upserts one daily bar, keyed on (symbol, timestamp).
func (c *Controller) AddStock(ctx *gin.Context) {
	var req addStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "Invalid input", err.Error())
		return
	}

	ts, err := time.Parse("2006-01-02", req.Timestamp)
	if err != nil {
		badRequest(ctx, "Invalid timestamp, expected YYYY-MM-DD")
		return
	}

	point := &models.PricePoint{
		Symbol:    strings.ToUpper(req.Symbol),
		Timestamp: ts,
		Open:      req.Open,
		High:      req.High,
		Low:       req.Low,
		Close:     req.Close,
		Volume:    req.Volume,
	}
	if err := c.repo.UpsertPricePoint(point); err != nil {
		internalError(ctx, "Failed to store price")
		return
	}
	if c.priceCache != nil {
		c.priceCache.Delete(point.Symbol)
	}
	ctx.JSON(http.StatusCreated, point)
}
