package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vzwbeheer/ledger/internal/clock"
	"github.com/vzwbeheer/ledger/internal/config"
	invoicedomain "github.com/vzwbeheer/ledger/internal/invoice/domain"
	"github.com/vzwbeheer/ledger/internal/invoice/format"
	sequencedomain "github.com/vzwbeheer/ledger/internal/sequence/domain"
	"github.com/vzwbeheer/ledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Sequencer sequencedomain.Service
	Invoicing *config.InvoicingConfigHolder
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	sequencer sequencedomain.Service
	invoicing *config.InvoicingConfigHolder
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		sequencer: p.Sequencer,
		invoicing: p.Invoicing,
	}
}

// Create validates the request, allocates a sequence for the invoice year
// and persists the invoice in draft. A lost sequence race rolls back the
// whole transaction and retries with a fresh allocation, bounded by the
// configured retry budget.
func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	if err := validateCustomerRef(req.MemberID, req.CompanyID); err != nil {
		return invoicedomain.Invoice{}, err
	}
	if err := validateLines(req.Lines); err != nil {
		return invoicedomain.Invoice{}, err
	}

	cfg := s.invoicing.Get()

	invoiceDate := req.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = s.clock.Now()
	}
	dueDate := invoiceDate.AddDate(0, 0, cfg.DueInDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}
	if dueDate.Before(invoiceDate) {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidDueDate
	}

	year := invoiceDate.Year()
	subtotal, vat, total := computeTotals(req.Lines)

	var created invoicedomain.Invoice
	attempt := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			seq, err := s.sequencer.Next(ctx, tx, year)
			if err != nil {
				return err
			}
			number, err := format.Number(cfg.NumberTemplate, year, seq)
			if err != nil {
				return err
			}

			now := s.clock.Now()
			invoice := invoicedomain.Invoice{
				ID:              s.genID.Generate(),
				MemberID:        req.MemberID,
				CompanyID:       req.CompanyID,
				InvoiceYear:     year,
				InvoiceSequence: seq,
				InvoiceNumber:   number,
				InvoiceDate:     invoiceDate,
				DueDate:         dueDate,
				Status:          invoicedomain.InvoiceStatusDraft,
				SubtotalAmount:  subtotal,
				VATAmount:       vat,
				TotalAmount:     total,
				Notes:           req.Notes,
				Metadata:        map[string]any{},
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := s.insertInvoice(ctx, tx, invoice); err != nil {
				if db.IsDuplicateKeyErr(err) {
					return sequencedomain.ErrSequenceConflict
				}
				return err
			}
			invoice.Lines, err = s.insertLines(ctx, tx, invoice.ID, req.Lines, now)
			if err != nil {
				return err
			}
			created = invoice
			return nil
		})
	}

	var err error
	for i := 0; i < cfg.SequenceRetries; i++ {
		err = attempt()
		if !errors.Is(err, sequencedomain.ErrSequenceConflict) {
			break
		}
		s.log.Warn("invoice sequence conflict, retrying",
			zap.Int("fiscal_year", year),
			zap.Int("attempt", i+1),
		)
	}
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_number", created.InvoiceNumber),
		zap.Int64("total_amount", created.TotalAmount),
	)
	return created, nil
}

// EditLines replaces the line items of a draft invoice and recomputes the
// totals. Any other status fails with ErrInvoiceNotDraft; line items are
// frozen once the invoice leaves draft.
func (s *Service) EditLines(ctx context.Context, req invoicedomain.EditLinesRequest) (invoicedomain.Invoice, error) {
	id, err := parseID(req.InvoiceID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if err := validateLines(req.Lines); err != nil {
		return invoicedomain.Invoice{}, err
	}

	var updated invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadInvoice(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice.Status != invoicedomain.InvoiceStatusDraft {
			return invoicedomain.ErrInvoiceNotDraft
		}

		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM invoice_lines WHERE invoice_id = ?`, id,
		).Error; err != nil {
			return err
		}

		now := s.clock.Now()
		subtotal, vat, total := computeTotals(req.Lines)
		if err := tx.WithContext(ctx).Exec(
			`UPDATE invoices
			 SET subtotal_amount = ?, vat_amount = ?, total_amount = ?, updated_at = ?
			 WHERE id = ?`,
			subtotal, vat, total, now, id,
		).Error; err != nil {
			return err
		}

		invoice.SubtotalAmount = subtotal
		invoice.VATAmount = vat
		invoice.TotalAmount = total
		invoice.UpdatedAt = now
		invoice.Lines, err = s.insertLines(ctx, tx, id, req.Lines, now)
		if err != nil {
			return err
		}
		updated = *invoice
		return nil
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return updated, nil
}

// Send marks the invoice sent. Re-sending a sent or overdue invoice is
// allowed (re-notification); the number and sequence never change.
func (s *Service) Send(ctx context.Context, rawID string) (invoicedomain.Invoice, error) {
	return s.transition(ctx, rawID, func(invoice *invoicedomain.Invoice, now time.Time) error {
		if invoice.Status == invoicedomain.InvoiceStatusPaid {
			return invoicedomain.ErrInvoiceAlreadyPaid
		}
		invoice.Status = invoicedomain.InvoiceStatusSent
		invoice.SentAt = &now
		return nil
	})
}

// Remind records one reminder. Only sent and overdue invoices can be
// reminded.
func (s *Service) Remind(ctx context.Context, rawID string) (invoicedomain.Invoice, error) {
	return s.transition(ctx, rawID, func(invoice *invoicedomain.Invoice, now time.Time) error {
		switch invoice.Status {
		case invoicedomain.InvoiceStatusSent, invoicedomain.InvoiceStatusOverdue:
		case invoicedomain.InvoiceStatusPaid:
			return invoicedomain.ErrInvoiceAlreadyPaid
		default:
			return invoicedomain.ErrInvoiceNotSent
		}
		invoice.ReminderCount++
		invoice.LastReminderAt = &now
		return nil
	})
}

// MarkPaid settles the invoice. paid_amount defaults to the total; paid is
// terminal, a second call fails.
func (s *Service) MarkPaid(ctx context.Context, req invoicedomain.MarkPaidRequest) (invoicedomain.Invoice, error) {
	return s.transition(ctx, req.InvoiceID, func(invoice *invoicedomain.Invoice, now time.Time) error {
		if invoice.Status == invoicedomain.InvoiceStatusPaid {
			return invoicedomain.ErrInvoiceAlreadyPaid
		}
		paid := invoice.TotalAmount
		if req.PaidAmount != nil {
			paid = *req.PaidAmount
		}
		if paid < 0 || paid > invoice.TotalAmount {
			return invoicedomain.ErrInvalidPaidAmount
		}
		invoice.Status = invoicedomain.InvoiceStatusPaid
		invoice.PaidAt = &now
		invoice.PaidAmount = paid
		return nil
	})
}

// MarkOverdue accepts the externally determined overdue status. The engine
// never infers overdue from due dates itself; a scheduler outside this core
// decides and calls in.
func (s *Service) MarkOverdue(ctx context.Context, rawID string) (invoicedomain.Invoice, error) {
	return s.transition(ctx, rawID, func(invoice *invoicedomain.Invoice, now time.Time) error {
		switch invoice.Status {
		case invoicedomain.InvoiceStatusSent:
		case invoicedomain.InvoiceStatusPaid:
			return invoicedomain.ErrInvoiceAlreadyPaid
		default:
			return invoicedomain.ErrInvoiceNotSent
		}
		invoice.Status = invoicedomain.InvoiceStatusOverdue
		return nil
	})
}

// Delete removes the invoice in any state. Line cleanup mirrors the
// storage-level cascade so sqlite deployments behave the same.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadInvoice(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM invoice_lines WHERE invoice_id = ?`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM invoices WHERE id = ?`, id,
		).Error; err != nil {
			return err
		}
		s.log.Info("invoice deleted", zap.String("invoice_number", invoice.InvoiceNumber))
		return nil
	})
}

func (s *Service) GetByID(ctx context.Context, rawID string) (invoicedomain.Invoice, error) {
	id, err := parseID(rawID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	var invoice *invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err = s.loadInvoice(ctx, tx, id)
		if err != nil {
			return err
		}
		invoice.Lines, err = s.loadLines(ctx, tx, id)
		return err
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	stmt := s.db.WithContext(ctx).Model(&invoicedomain.Invoice{})
	if req.Status != nil {
		stmt = stmt.Where("status = ?", *req.Status)
	}
	if req.InvoiceYear != nil {
		stmt = stmt.Where("invoice_year = ?", *req.InvoiceYear)
	}
	if req.MemberID != nil {
		stmt = stmt.Where("member_id = ?", *req.MemberID)
	}
	if req.CompanyID != nil {
		stmt = stmt.Where("company_id = ?", *req.CompanyID)
	}

	var invoices []invoicedomain.Invoice
	err := stmt.
		Order("invoice_year desc, invoice_sequence desc").
		Find(&invoices).Error
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}
	return invoicedomain.ListInvoiceResponse{Invoices: invoices}, nil
}

// transition loads the invoice, applies mutate, and persists the result.
// The UPDATE is guarded on the loaded status so a concurrent transition
// cannot be silently overwritten.
func (s *Service) transition(
	ctx context.Context,
	rawID string,
	mutate func(invoice *invoicedomain.Invoice, now time.Time) error,
) (invoicedomain.Invoice, error) {
	id, err := parseID(rawID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	var updated invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadInvoice(ctx, tx, id)
		if err != nil {
			return err
		}
		previous := invoice.Status

		now := s.clock.Now()
		if err := mutate(invoice, now); err != nil {
			return err
		}
		invoice.UpdatedAt = now

		result := tx.WithContext(ctx).Exec(
			`UPDATE invoices
			 SET status = ?, paid_amount = ?, sent_at = ?, paid_at = ?,
			     last_reminder_at = ?, reminder_count = ?, updated_at = ?
			 WHERE id = ? AND status = ?`,
			invoice.Status,
			invoice.PaidAmount,
			invoice.SentAt,
			invoice.PaidAt,
			invoice.LastReminderAt,
			invoice.ReminderCount,
			invoice.UpdatedAt,
			id,
			previous,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return invoicedomain.ErrInvoiceNotFound
		}
		updated = *invoice
		return nil
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return updated, nil
}

func validateCustomerRef(memberID, companyID *snowflake.ID) error {
	if memberID != nil && companyID != nil {
		return invoicedomain.ErrBothCustomerRefs
	}
	if memberID == nil && companyID == nil {
		return invoicedomain.ErrMissingCustomerRef
	}
	return nil
}

func (s *Service) insertInvoice(ctx context.Context, tx *gorm.DB, invoice invoicedomain.Invoice) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO invoices (
			id, member_id, company_id, invoice_year, invoice_sequence, invoice_number,
			invoice_date, due_date, status, subtotal_amount, vat_amount, total_amount,
			paid_amount, reminder_count, notes, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.MemberID,
		invoice.CompanyID,
		invoice.InvoiceYear,
		invoice.InvoiceSequence,
		invoice.InvoiceNumber,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.Status,
		invoice.SubtotalAmount,
		invoice.VATAmount,
		invoice.TotalAmount,
		invoice.PaidAmount,
		invoice.ReminderCount,
		invoice.Notes,
		invoice.Metadata,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (s *Service) insertLines(
	ctx context.Context,
	tx *gorm.DB,
	invoiceID snowflake.ID,
	inputs []invoicedomain.LineInput,
	now time.Time,
) ([]invoicedomain.InvoiceLine, error) {
	lines := make([]invoicedomain.InvoiceLine, 0, len(inputs))
	for _, input := range inputs {
		net, vat := lineAmounts(input)
		line := invoicedomain.InvoiceLine{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			Description: input.Description,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			VATRate:     input.VATRate,
			SortOrder:   input.SortOrder,
			TotalAmount: net + vat,
			CreatedAt:   now,
		}
		if err := tx.WithContext(ctx).Exec(
			`INSERT INTO invoice_lines (
				id, invoice_id, description, quantity, unit_price,
				vat_rate, sort_order, total_amount, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			line.ID,
			line.InvoiceID,
			line.Description,
			line.Quantity,
			line.UnitPrice,
			line.VATRate,
			line.SortOrder,
			line.TotalAmount,
			line.CreatedAt,
		).Error; err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Service) loadInvoice(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := tx.WithContext(ctx).Raw(
		`SELECT id, member_id, company_id, invoice_year, invoice_sequence, invoice_number,
		        invoice_date, due_date, status, subtotal_amount, vat_amount, total_amount,
		        paid_amount, sent_at, paid_at, last_reminder_at, reminder_count, notes,
		        created_at, updated_at
		 FROM invoices
		 WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	return &invoice, nil
}

func (s *Service) loadLines(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID) ([]invoicedomain.InvoiceLine, error) {
	var lines []invoicedomain.InvoiceLine
	err := tx.WithContext(ctx).Raw(
		`SELECT id, invoice_id, description, quantity, unit_price,
		        vat_rate, sort_order, total_amount, created_at
		 FROM invoice_lines
		 WHERE invoice_id = ?
		 ORDER BY sort_order ASC`,
		invoiceID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, invoicedomain.ErrInvalidInvoiceID
	}
	return id, nil
}
