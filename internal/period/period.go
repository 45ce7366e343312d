// Package period decides whether dated records fall inside a reporting
// window. Filters are plain values; Includes has no ambient state.
package period

import (
	"errors"
	"time"
)

// Type selects the window shape.
type Type string

const (
	TypeAll     Type = "all"
	TypeYear    Type = "year"
	TypeQuarter Type = "quarter"
	TypeMonth   Type = "month"
	TypeCustom  Type = "custom"
)

var ErrInvalidFilter = errors.New("invalid_period_filter")

// Filter describes a reporting window. Start and End apply to custom filters
// only; either bound may be nil for an open range, both bounds inclusive.
type Filter struct {
	Type    Type
	Year    int
	Quarter int // 1-4
	Month   int // 1-12
	Start   *time.Time
	End     *time.Time
}

// All matches every record.
func All() Filter { return Filter{Type: TypeAll} }

// Year matches records dated in the given calendar year.
func Year(year int) Filter { return Filter{Type: TypeYear, Year: year} }

// Quarter matches records in the given quarter of the given year
// (Q1 = Jan-Mar, ..., Q4 = Oct-Dec).
func Quarter(year, quarter int) Filter {
	return Filter{Type: TypeQuarter, Year: year, Quarter: quarter}
}

// Month matches records in the given month of the given year.
func Month(year, month int) Filter {
	return Filter{Type: TypeMonth, Year: year, Month: month}
}

// Custom matches records between start and end inclusive; nil leaves that
// side of the range open.
func Custom(start, end *time.Time) Filter {
	return Filter{Type: TypeCustom, Start: start, End: end}
}

// Validate rejects malformed filters before they reach aggregation.
func (f Filter) Validate() error {
	switch f.Type {
	case TypeAll, TypeCustom:
		return nil
	case TypeYear:
		if f.Year == 0 {
			return ErrInvalidFilter
		}
		return nil
	case TypeQuarter:
		if f.Year == 0 || f.Quarter < 1 || f.Quarter > 4 {
			return ErrInvalidFilter
		}
		return nil
	case TypeMonth:
		if f.Year == 0 || f.Month < 1 || f.Month > 12 {
			return ErrInvalidFilter
		}
		return nil
	default:
		return ErrInvalidFilter
	}
}

// Includes reports whether date falls inside the filter's window.
func Includes(f Filter, date time.Time) bool {
	switch f.Type {
	case TypeAll:
		return true
	case TypeYear:
		return date.Year() == f.Year
	case TypeQuarter:
		if date.Year() != f.Year {
			return false
		}
		month := int(date.Month())
		return (month-1)/3+1 == f.Quarter
	case TypeMonth:
		return date.Year() == f.Year && int(date.Month()) == f.Month
	case TypeCustom:
		if f.Start != nil && date.Before(*f.Start) {
			return false
		}
		if f.End != nil && date.After(*f.End) {
			return false
		}
		return true
	default:
		return false
	}
}
