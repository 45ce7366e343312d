package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	budgetdomain "github.com/vzwbeheer/ledger/internal/budget/domain"
	"github.com/vzwbeheer/ledger/pkg/money"
)

type upsertBudgetEntryRequest struct {
	FiscalYear int    `json:"fiscal_year"`
	Section    string `json:"section"`
	Category   string `json:"category"`
	// BudgetedAmount is a decimal string, e.g. "500.00".
	BudgetedAmount string `json:"budgeted_amount"`
}

func (s *Server) fiscalYearParam(c *gin.Context) (int, error) {
	year, err := parseOptionalInt64(c.Query("year"))
	if err != nil {
		return 0, newValidationError("year", "invalid_year", "invalid year")
	}
	if year == nil {
		return s.cfg.FiscalYear, nil
	}
	return int(*year), nil
}

func (s *Server) BudgetComparison(c *gin.Context) {
	year, err := s.fiscalYearParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	cmp, err := s.budgetSvc.Compare(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cmp})
}

func (s *Server) UpsertBudgetEntry(c *gin.Context) {
	var req upsertBudgetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	budgeted, err := money.ParseDecimal(req.BudgetedAmount)
	if err != nil {
		AbortWithError(c, newValidationError("budgeted_amount", "invalid_budget_amount", "invalid decimal amount"))
		return
	}

	entry, err := s.budgetSvc.Upsert(c.Request.Context(), budgetdomain.UpsertEntryRequest{
		FiscalYear:     req.FiscalYear,
		Section:        budgetdomain.Section(req.Section),
		Category:       req.Category,
		BudgetedAmount: budgeted,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) RecomputeBudget(c *gin.Context) {
	year, err := s.fiscalYearParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.budgetSvc.Recompute(c.Request.Context(), year); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recomputed", "year": year})
}
