// Package money handles amounts as int64 cents with two implied decimals.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrInvalidAmount = errors.New("invalid_amount")
)

// ParseDecimal converts a decimal string to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted. More than two
// fractional digits are rounded half-to-even on the third digit. Negative
// amounts are rejected.
func ParseDecimal(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
		}
		if len(fracPart) > 2 {
			// Round half-to-even on the third digit; digits beyond the
			// third break the tie upward.
			d3 := int64(fracPart[2] - '0')
			rest := strings.TrimRight(fracPart[3:], "0")
			switch {
			case d3 > 5 || (d3 == 5 && rest != ""):
				fracCents++
			case d3 == 5 && fracCents%2 == 1:
				fracCents++
			}
		}
	}

	return iv*100 + fracCents, nil
}

// Format renders cents as a canonical decimal string, e.g. 12150 -> "121.50".
// The output round-trips through ParseDecimal without loss.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// DivRoundHalfEven divides n by d rounding half-to-even (banker's rounding).
// This is the single rounding policy for every monetary division in the
// engine. d must be positive.
func DivRoundHalfEven(n, d int64) int64 {
	if d <= 0 {
		panic("money: non-positive divisor")
	}
	neg := n < 0
	if neg {
		n = -n
	}
	q := n / d
	r := n % d
	switch {
	case 2*r > d:
		q++
	case 2*r == d && q%2 == 1:
		q++
	}
	if neg {
		q = -q
	}
	return q
}
