package service

import (
	"strings"

	invoicedomain "github.com/vzwbeheer/ledger/internal/invoice/domain"
	"github.com/vzwbeheer/ledger/pkg/money"
)

// Invoice pricing is VAT-exclusive: the entered unit price is net and VAT is
// added on top. The expense summary in the ledger package uses the opposite,
// VAT-inclusive convention; the two deliberately never share code.

// validateLines checks the caller-submitted lines against the invoice
// constraints. Errors surface to the caller, nothing is clamped.
func validateLines(lines []invoicedomain.LineInput) error {
	if len(lines) == 0 {
		return invoicedomain.ErrNoLines
	}
	seen := make(map[int]bool, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.Description) == "" {
			return invoicedomain.ErrEmptyDescription
		}
		if line.Quantity <= 0 {
			return invoicedomain.ErrInvalidQuantity
		}
		if line.UnitPrice < 0 {
			return invoicedomain.ErrInvalidUnitPrice
		}
		if line.VATRate < 0 || line.VATRate > 100 {
			return invoicedomain.ErrInvalidVATRate
		}
		if seen[line.SortOrder] {
			return invoicedomain.ErrDuplicateSortOrder
		}
		seen[line.SortOrder] = true
	}
	return nil
}

// lineAmounts computes the net and VAT cents for one line. VAT is rounded
// half-to-even per line; the invoice totals sum the rounded values and are
// not re-rounded (sum-of-rounded, the convention of the historical data).
func lineAmounts(line invoicedomain.LineInput) (net, vat int64) {
	net = line.Quantity * line.UnitPrice
	vat = money.DivRoundHalfEven(net*int64(line.VATRate), 100)
	return net, vat
}

// computeTotals derives the invoice totals from the submitted lines.
func computeTotals(lines []invoicedomain.LineInput) (subtotal, vatTotal, total int64) {
	for _, line := range lines {
		net, vat := lineAmounts(line)
		subtotal += net
		vatTotal += vat
	}
	return subtotal, vatTotal, subtotal + vatTotal
}
