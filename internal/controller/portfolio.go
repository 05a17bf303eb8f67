package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stockfolio/internal/ledger"
	"stockfolio/internal/models"
)

type portfolioResponse struct {
	models.Portfolio
	Holdings []models.Holding `json:"holdings"`
}

func (c *Controller) CreatePortfolio(ctx *gin.Context) {
	p, err := c.repo.CreatePortfolio(c.defaultCash)
	if err != nil {
		internalError(ctx, "Failed to create portfolio")
		return
	}
	ctx.JSON(http.StatusCreated, p)
}

func (c *Controller) ListPortfolios(ctx *gin.Context) {
	portfolios, err := c.repo.GetAllPortfolios()
	if err != nil {
		internalError(ctx, "Failed to fetch portfolios")
		return
	}
	ctx.JSON(http.StatusOK, portfolios)
}

func (c *Controller) GetPortfolio(ctx *gin.Context) {
	id, err := portfolioID(ctx)
	if err != nil {
		badRequest(ctx, "Invalid portfolio ID")
		return
	}

	p, err := c.repo.GetPortfolio(id)
	if err != nil {
		domainError(ctx, err)
		return
	}
	holdings, err := c.repo.GetHoldings(id)
	if err != nil {
		internalError(ctx, "Failed to fetch holdings")
		return
	}

	ctx.JSON(http.StatusOK, portfolioResponse{Portfolio: *p, Holdings: holdings})
}

func (c *Controller) ListTransactions(ctx *gin.Context) {
	id, err := portfolioID(ctx)
	if err != nil {
		badRequest(ctx, "Invalid portfolio ID")
		return
	}

	if _, err := c.repo.GetPortfolio(id); err != nil {
		domainError(ctx, err)
		return
	}

	transactions, err := c.repo.GetTransactions(id)
	if err != nil {
		internalError(ctx, "Failed to fetch transactions")
		return
	}
	ctx.JSON(http.StatusOK, transactions)
}

type transactionRequest struct {
	Type     models.TransactionType `json:"type"     binding:"required"`
	Cash     decimal.Decimal        `json:"cash"`
	Symbol   string                 `json:"symbol"`
	Shares   int64                  `json:"shares"`
	Username string                 `json:"username"`
}

func (c *Controller) CreateTransaction(ctx *gin.Context) {
	id, err := portfolioID(ctx)
	if err != nil {
		badRequest(ctx, "Invalid portfolio ID")
		return
	}

	var req transactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "Invalid input", err.Error())
		return
	}

	username := req.Username
	if username == "" {
		username = ctx.GetHeader("X-Username")
	}
	if username == "" {
		username = "local"
	}

	var request ledger.Request
	switch req.Type {
	case models.TxCashDeposit:
		request = ledger.Deposit{Cash: req.Cash}
	case models.TxCashWithdraw:
		request = ledger.Withdraw{Cash: req.Cash}
	case models.TxStockBuy:
		request = ledger.Buy{Symbol: req.Symbol, Shares: req.Shares}
	case models.TxStockSell:
		request = ledger.Sell{Symbol: req.Symbol, Shares: req.Shares}
	default:
		badRequest(ctx, "Unknown transaction type")
		return
	}

	entry, err := c.processor.Process(id, username, request)
	if err != nil {
		domainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

func portfolioID(ctx *gin.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}
