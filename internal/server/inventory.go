package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzwbeheer/ledger/internal/category"
	inventorydomain "github.com/vzwbeheer/ledger/internal/inventory/domain"
	"github.com/vzwbeheer/ledger/pkg/money"
)

type addInventoryItemRequest struct {
	ItemType    string `json:"item_type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	// Amount is a decimal string, e.g. "1500.00".
	Amount     string `json:"amount"`
	FiscalYear int    `json:"fiscal_year"`
}

func (s *Server) InventoryBalance(c *gin.Context) {
	year, err := s.fiscalYearParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.inventorySvc.BalanceReport(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) AddInventoryItem(c *gin.Context) {
	var req addInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	amount, err := money.ParseDecimal(req.Amount)
	if err != nil {
		AbortWithError(c, newValidationError("amount", "invalid_item_amount", "invalid decimal amount"))
		return
	}

	item, err := s.inventorySvc.Add(c.Request.Context(), inventorydomain.AddItemRequest{
		ItemType:    req.ItemType,
		Category:    category.BalanceBucket(req.Category),
		Description: req.Description,
		Amount:      amount,
		FiscalYear:  req.FiscalYear,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) DeleteInventoryItem(c *gin.Context) {
	if err := s.inventorySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
