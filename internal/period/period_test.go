package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestIncludesAll(t *testing.T) {
	assert.True(t, Includes(All(), date(1999, 1, 1)))
	assert.True(t, Includes(All(), date(2030, 12, 31)))
}

func TestIncludesYear(t *testing.T) {
	f := Year(2024)
	assert.True(t, Includes(f, date(2024, 1, 1)))
	assert.True(t, Includes(f, date(2024, 12, 31)))
	assert.False(t, Includes(f, date(2023, 12, 31)))
	assert.False(t, Includes(f, date(2025, 1, 1)))
}

func TestIncludesQuarter(t *testing.T) {
	// April belongs to Q2 only.
	april := date(2024, 4, 15)
	assert.True(t, Includes(Quarter(2024, 2), april))
	assert.False(t, Includes(Quarter(2024, 1), april))
	assert.False(t, Includes(Quarter(2024, 3), april))
	assert.False(t, Includes(Quarter(2024, 4), april))
	// Wrong year excludes entirely.
	assert.False(t, Includes(Quarter(2023, 2), april))

	// Quarter boundaries.
	assert.True(t, Includes(Quarter(2024, 1), date(2024, 3, 31)))
	assert.True(t, Includes(Quarter(2024, 4), date(2024, 10, 1)))
}

func TestIncludesMonth(t *testing.T) {
	f := Month(2024, 2)
	assert.True(t, Includes(f, date(2024, 2, 29)))
	assert.False(t, Includes(f, date(2024, 3, 1)))
	assert.False(t, Includes(f, date(2023, 2, 1)))
}

func TestIncludesCustom(t *testing.T) {
	start := date(2024, 3, 1)
	end := date(2024, 3, 31)

	both := Custom(&start, &end)
	assert.True(t, Includes(both, start))
	assert.True(t, Includes(both, end))
	assert.False(t, Includes(both, date(2024, 2, 29)))
	assert.False(t, Includes(both, date(2024, 4, 1)))

	openEnd := Custom(&start, nil)
	assert.True(t, Includes(openEnd, date(2030, 1, 1)))
	assert.False(t, Includes(openEnd, date(2024, 2, 1)))

	openStart := Custom(nil, &end)
	assert.True(t, Includes(openStart, date(1999, 1, 1)))
	assert.False(t, Includes(openStart, date(2024, 4, 1)))

	openBoth := Custom(nil, nil)
	assert.True(t, Includes(openBoth, date(2024, 6, 1)))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, All().Validate())
	assert.NoError(t, Year(2024).Validate())
	assert.NoError(t, Quarter(2024, 4).Validate())
	assert.NoError(t, Month(2024, 12).Validate())
	assert.NoError(t, Custom(nil, nil).Validate())

	assert.ErrorIs(t, Quarter(2024, 0).Validate(), ErrInvalidFilter)
	assert.ErrorIs(t, Quarter(2024, 5).Validate(), ErrInvalidFilter)
	assert.ErrorIs(t, Month(2024, 13).Validate(), ErrInvalidFilter)
	assert.ErrorIs(t, Year(0).Validate(), ErrInvalidFilter)
	assert.ErrorIs(t, Filter{Type: "decade"}.Validate(), ErrInvalidFilter)
}
