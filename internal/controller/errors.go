package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"stockfolio/internal/analytics"
	"stockfolio/internal/ledger"
	"stockfolio/internal/repo"
)

type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func errorResponse(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, APIError{Error: message})
}

func badRequest(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusBadRequest, message)
}

func badRequestWithDetails(ctx *gin.Context, message string, details string) {
	ctx.JSON(http.StatusBadRequest, APIError{Error: message, Details: details})
}

func notFound(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusNotFound, message)
}

func internalError(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusInternalServerError, message)
}

// domainError maps ledger, repo and analytics sentinels onto HTTP statuses.
// Anything unrecognized is a storage failure and stays a 500.
func domainError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, repo.ErrPortfolioNotFound),
		errors.Is(err, repo.ErrHoldingNotFound),
		errors.Is(err, repo.ErrPriceNotFound):
		errorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientShares),
		errors.Is(err, analytics.ErrNotEnoughData),
		errors.Is(err, analytics.ErrDivisionByZero):
		errorResponse(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidShares),
		errors.Is(err, ledger.ErrUnknownRequest):
		errorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		errorResponse(ctx, http.StatusInternalServerError, "storage error")
	}
}
