package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/vzwbeheer/ledger/internal/invoice/domain"
	"github.com/vzwbeheer/ledger/pkg/money"
)

type invoiceLineRequest struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	// UnitPrice is a decimal string, e.g. "12.50".
	UnitPrice string `json:"unit_price"`
	VATRate   int    `json:"vat_rate"`
	SortOrder int    `json:"sort_order"`
}

type createInvoiceRequest struct {
	MemberID    string               `json:"member_id"`
	CompanyID   string               `json:"company_id"`
	InvoiceDate string               `json:"invoice_date"`
	DueDate     string               `json:"due_date"`
	Notes       string               `json:"notes"`
	Lines       []invoiceLineRequest `json:"lines"`
}

type editLinesRequest struct {
	Lines []invoiceLineRequest `json:"lines"`
}

type payInvoiceRequest struct {
	// PaidAmount is a decimal string; empty means the full invoice total.
	PaidAmount string `json:"paid_amount"`
}

type invoiceResponse struct {
	invoicedomain.Invoice
	SubtotalFormatted string `json:"subtotal_formatted"`
	VATFormatted      string `json:"vat_formatted"`
	TotalFormatted    string `json:"total_formatted"`
}

func asInvoiceResponse(inv invoicedomain.Invoice) invoiceResponse {
	return invoiceResponse{
		Invoice:           inv,
		SubtotalFormatted: money.Format(inv.SubtotalAmount),
		VATFormatted:      money.Format(inv.VATAmount),
		TotalFormatted:    money.Format(inv.TotalAmount),
	}
}

func parseLines(lines []invoiceLineRequest) ([]invoicedomain.LineInput, error) {
	parsed := make([]invoicedomain.LineInput, 0, len(lines))
	for _, l := range lines {
		unitPrice, err := money.ParseDecimal(l.UnitPrice)
		if err != nil {
			return nil, newValidationError("lines.unit_price", "invalid_unit_price", "invalid decimal amount")
		}
		parsed = append(parsed, invoicedomain.LineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   unitPrice,
			VATRate:     l.VATRate,
			SortOrder:   l.SortOrder,
		})
	}
	return parsed, nil
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
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
	invoiceDate, err := parseOptionalTime(req.InvoiceDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("invoice_date", "invalid_date", "invalid date"))
		return
	}
	dueDate, err := parseOptionalTime(req.DueDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("due_date", "invalid_date", "invalid date"))
		return
	}
	lines, err := parseLines(req.Lines)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	create := invoicedomain.CreateInvoiceRequest{
		MemberID:  memberID,
		CompanyID: companyID,
		DueDate:   dueDate,
		Notes:     req.Notes,
		Lines:     lines,
	}
	if invoiceDate != nil {
		create.InvoiceDate = *invoiceDate
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": asInvoiceResponse(inv)})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var req invoicedomain.ListInvoiceRequest

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := invoicedomain.InvoiceStatus(raw)
		req.Status = &status
	}
	year, err := parseOptionalInt64(c.Query("year"))
	if err != nil {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}
	if year != nil {
		y := int(*year)
		req.InvoiceYear = &y
	}
	req.MemberID, err = parseOptionalSnowflakeID(c.Query("member_id"))
	if err != nil {
		AbortWithError(c, newValidationError("member_id", "invalid_id", "invalid id"))
		return
	}
	req.CompanyID, err = parseOptionalSnowflakeID(c.Query("company_id"))
	if err != nil {
		AbortWithError(c, newValidationError("company_id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": asInvoiceResponse(inv)})
}

func (s *Server) UpdateInvoiceLines(c *gin.Context) {
	var req editLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	lines, err := parseLines(req.Lines)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	inv, err := s.invoiceSvc.EditLines(c.Request.Context(), invoicedomain.EditLinesRequest{
		InvoiceID: c.Param("id"),
		Lines:     lines,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": asInvoiceResponse(inv)})
}

func (s *Server) SendInvoice(c *gin.Context) {
	s.transitionInvoice(c, s.invoiceSvc.Send)
}

func (s *Server) RemindInvoice(c *gin.Context) {
	s.transitionInvoice(c, s.invoiceSvc.Remind)
}

func (s *Server) MarkInvoiceOverdue(c *gin.Context) {
	s.transitionInvoice(c, s.invoiceSvc.MarkOverdue)
}

func (s *Server) transitionInvoice(c *gin.Context, fn func(ctx context.Context, id string) (invoicedomain.Invoice, error)) {
	inv, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": asInvoiceResponse(inv)})
}

func (s *Server) PayInvoice(c *gin.Context) {
	var req payInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
			return
		}
	}

	mark := invoicedomain.MarkPaidRequest{InvoiceID: c.Param("id")}
	if strings.TrimSpace(req.PaidAmount) != "" {
		amount, err := money.ParseDecimal(req.PaidAmount)
		if err != nil {
			AbortWithError(c, newValidationError("paid_amount", "invalid_paid_amount", "invalid decimal amount"))
			return
		}
		mark.PaidAmount = &amount
	}

	inv, err := s.invoiceSvc.MarkPaid(c.Request.Context(), mark)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": asInvoiceResponse(inv)})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
