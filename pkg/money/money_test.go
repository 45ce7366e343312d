package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12.34", want: 1234},
		{in: "12,34", want: 1234},
		{in: "100", want: 10000},
		{in: "0.01", want: 1},
		{in: ".50", want: 50},
		{in: "121.00", want: 12100},
		// Half-to-even on the third decimal.
		{in: "12.345", want: 1234},
		{in: "12.355", want: 1236},
		{in: "12.3451", want: 1235},
		{in: "12.346", want: 1235},
		{in: "", wantErr: true},
		{in: "-5.00", wantErr: true},
		{in: "+5.00", wantErr: true},
		{in: "1.2.3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "12.3a", wantErr: true},
		{in: "0", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseDecimal(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFormatRoundTrips(t *testing.T) {
	for _, cents := range []int64{1, 50, 99, 100, 12150, 1000000} {
		parsed, err := ParseDecimal(Format(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, parsed)
	}
	assert.Equal(t, "121.00", Format(12100))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "-3.50", Format(-350))
}

func TestDivRoundHalfEven(t *testing.T) {
	assert.Equal(t, int64(2), DivRoundHalfEven(5, 2))  // 2.5 -> 2
	assert.Equal(t, int64(4), DivRoundHalfEven(7, 2))  // 3.5 -> 4
	assert.Equal(t, int64(3), DivRoundHalfEven(6, 2))  // exact
	assert.Equal(t, int64(2), DivRoundHalfEven(45, 20))
	assert.Equal(t, int64(-2), DivRoundHalfEven(-5, 2))
	// VAT-inclusive decomposition: 121.00 at 21% -> 21.00 implied.
	assert.Equal(t, int64(2100), DivRoundHalfEven(12100*21, 121))
}
