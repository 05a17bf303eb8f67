package controller

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// holdingSymbols resolves a portfolio's current symbols, writing the error
// response itself when the portfolio is missing or empty.
func (c *Controller) holdingSymbols(ctx *gin.Context) ([]string, bool) {
	id, err := portfolioID(ctx)
	if err != nil {
		badRequest(ctx, "Invalid portfolio ID")
		return nil, false
	}
	if _, err := c.repo.GetPortfolio(id); err != nil {
		domainError(ctx, err)
		return nil, false
	}
	holdings, err := c.repo.GetHoldings(id)
	if err != nil {
		internalError(ctx, "Failed to fetch holdings")
		return nil, false
	}
	if len(holdings) == 0 {
		notFound(ctx, "Portfolio has no holdings")
		return nil, false
	}
	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}
	return symbols, true
}

// GetVariance reports var/mean per held symbol. A symbol whose series is
// degenerate carries its failure reason instead of a silently wrong number.
func (c *Controller) GetVariance(ctx *gin.Context) {
	symbols, ok := c.holdingSymbols(ctx)
	if !ok {
		return
	}

	values := make(map[string]float64, len(symbols))
	failures := make(map[string]string)
	for _, symbol := range symbols {
		v, err := c.engine.VarianceRatio(symbol)
		if err != nil {
			failures[symbol] = err.Error()
			continue
		}
		values[symbol] = v
	}

	resp := gin.H{"variance": values}
	if len(failures) > 0 {
		resp["undefined"] = failures
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetBeta reports beta per held symbol against the market proxy. A nil
// entry means market variance is zero and beta is undefined.
func (c *Controller) GetBeta(ctx *gin.Context) {
	symbols, ok := c.holdingSymbols(ctx)
	if !ok {
		return
	}

	values := make(map[string]*float64, len(symbols))
	failures := make(map[string]string)
	for _, symbol := range symbols {
		b, err := c.engine.Beta(symbol)
		if err != nil {
			failures[symbol] = err.Error()
			continue
		}
		values[symbol] = b
	}

	resp := gin.H{"beta": values}
	if len(failures) > 0 {
		resp["undefined"] = failures
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) GetMatrices(ctx *gin.Context) {
	symbols, ok := c.holdingSymbols(ctx)
	if !ok {
		return
	}

	result, err := c.engine.Matrices(symbols)
	if err != nil {
		domainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"symbols":            result.Symbols,
		"rows":               result.Rows,
		"covariance_matrix":  result.Covariance,
		"correlation_matrix": jsonSafeMatrix(result.Correlation),
	})
}

// jsonSafeMatrix replaces NaN cells (a zero-variance symbol normalizes to
// 0/0) with null so the matrix stays valid JSON.
func jsonSafeMatrix(m map[string]map[string]float64) map[string]map[string]*float64 {
	out := make(map[string]map[string]*float64, len(m))
	for a, row := range m {
		safe := make(map[string]*float64, len(row))
		for b, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				safe[b] = nil
				continue
			}
			val := v
			safe[b] = &val
		}
		out[a] = safe
	}
	return out
}
