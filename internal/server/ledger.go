package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/vzwbeheer/ledger/internal/ledger/domain"
	"github.com/vzwbeheer/ledger/pkg/money"
)

type recordTransactionRequest struct {
	Kind        string `json:"kind"`
	OccurredOn  string `json:"occurred_on"`
	Description string `json:"description"`
	// Amount is a decimal string, e.g. "121.00".
	Amount      string `json:"amount"`
	RawCategory string `json:"raw_category"`
	VATRate     *int   `json:"vat_rate,omitempty"`
	MemberID    string `json:"member_id,omitempty"`
	CompanyID   string `json:"company_id,omitempty"`
}

func (s *Server) RecordTransaction(c *gin.Context) {
	var req recordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	amount, err := money.ParseDecimal(req.Amount)
	if err != nil {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "invalid decimal amount"))
		return
	}
	occurredOn, err := parseOptionalTime(req.OccurredOn, false)
	if err != nil {
		AbortWithError(c, newValidationError("occurred_on", "invalid_date", "invalid date"))
		return
	}
	memberID, err := parseOptionalSnowflakeID(req.MemberID)
	if err != nil {
		AbortWithError(c, newValidationError("member_id", "invalid_id", "invalid id"))
		return
	}
	companyID, err := parseOptionalSnowflakeID(req.CompanyID)
	if err != nil {
		AbortWithError(c, newValidationError("company_id", "invalid_id", "invalid id"))
		return
	}

	record := ledgerdomain.RecordTransactionRequest{
		Kind:        ledgerdomain.TransactionKind(strings.TrimSpace(req.Kind)),
		Description: req.Description,
		Amount:      amount,
		RawCategory: req.RawCategory,
		VATRate:     req.VATRate,
		MemberID:    memberID,
		CompanyID:   companyID,
	}
	if occurredOn != nil {
		record.OccurredOn = *occurredOn
	}

	tx, err := s.ledgerSvc.Record(c.Request.Context(), record)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": tx})
}

func (s *Server) DeleteTransaction(c *gin.Context) {
	if err := s.ledgerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) LedgerSnapshot(c *gin.Context) {
	filter, err := parsePeriodFilter(c.Query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	snap, err := s.ledgerSvc.Aggregate(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"snapshot":                 snap,
		"balance_formatted":        money.Format(snap.Balance),
		"total_income_formatted":   money.Format(snap.TotalIncome),
		"total_expenses_formatted": money.Format(snap.TotalExpenses),
	}})
}
