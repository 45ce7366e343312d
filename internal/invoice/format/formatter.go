package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

const DefaultNumberTemplate = "{YYYY}-{SEQ4}"

// Number formats a human-readable invoice number from a template, the
// invoice's fiscal year, and its per-year sequence.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
//
// For a fixed template, (year, seq) -> number is injective: year tokens and
// sequence tokens render disjoint parts, and sequences wider than the
// padding render unpadded.
func Number(template string, year int, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}

	if year <= 0 {
		return "", fmt.Errorf("invalid invoice year: %d", year)
	}

	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := template

	// Year tokens
	out = strings.ReplaceAll(out, "{YYYY}", fmt.Sprintf("%04d", year))
	out = strings.ReplaceAll(out, "{YY}", fmt.Sprintf("%02d", year%100))

	// Simple sequence
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	// Padded sequence
	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m // should never happen
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		return fmt.Sprintf("%0*d", width, seq)
	})

	// Final safety check: unresolved tokens
	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in invoice number format: %s", out)
	}

	return out, nil
}
