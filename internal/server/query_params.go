package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vzwbeheer/ledger/internal/period"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalInt64(value string) (*int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalSnowflakeID(value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil || parsed == 0 {
		return nil, errors.New("invalid_snowflake_id")
	}
	return &parsed, nil
}

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		}
		return &parsed, nil
	}
	return nil, errors.New("invalid_time")
}

// parsePeriodFilter builds a period filter from query params. Accepted
// shapes: none (all), year, year+quarter, year+month, or from/to bounds.
func parsePeriodFilter(get func(string) string) (period.Filter, error) {
	year, err := parseOptionalInt64(get("year"))
	if err != nil {
		return period.Filter{}, period.ErrInvalidFilter
	}
	quarter, err := parseOptionalInt64(get("quarter"))
	if err != nil {
		return period.Filter{}, period.ErrInvalidFilter
	}
	month, err := parseOptionalInt64(get("month"))
	if err != nil {
		return period.Filter{}, period.ErrInvalidFilter
	}
	from, err := parseOptionalTime(get("from"), false)
	if err != nil {
		return period.Filter{}, period.ErrInvalidFilter
	}
	to, err := parseOptionalTime(get("to"), true)
	if err != nil {
		return period.Filter{}, period.ErrInvalidFilter
	}

	switch {
	case from != nil || to != nil:
		if year != nil || quarter != nil || month != nil {
			return period.Filter{}, period.ErrInvalidFilter
		}
		return period.Custom(from, to), nil
	case quarter != nil:
		if year == nil || month != nil {
			return period.Filter{}, period.ErrInvalidFilter
		}
		return period.Quarter(int(*year), int(*quarter)), nil
	case month != nil:
		if year == nil {
			return period.Filter{}, period.ErrInvalidFilter
		}
		return period.Month(int(*year), int(*month)), nil
	case year != nil:
		return period.Year(int(*year)), nil
	default:
		return period.All(), nil
	}
}
