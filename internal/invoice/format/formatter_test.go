package format

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberDefaultTemplate(t *testing.T) {
	got, err := Number(DefaultNumberTemplate, 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, "2025-0007", got)

	got, err = Number(DefaultNumberTemplate, 2025, 12345)
	require.NoError(t, err)
	assert.Equal(t, "2025-12345", got)
}

func TestNumberTokens(t *testing.T) {
	got, err := Number("F{YY}/{SEQ}", 2025, 42)
	require.NoError(t, err)
	assert.Equal(t, "F25/42", got)

	got, err = Number("{YYYY}{SEQ6}", 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024000003", got)
}

func TestNumberIsDeterministic(t *testing.T) {
	a, err := Number(DefaultNumberTemplate, 2025, 9)
	require.NoError(t, err)
	b, err := Number(DefaultNumberTemplate, 2025, 9)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNumberIsInjective(t *testing.T) {
	seen := map[string]string{}
	for year := 2023; year <= 2026; year++ {
		for seq := int64(1); seq <= 250; seq++ {
			num, err := Number(DefaultNumberTemplate, year, seq)
			require.NoError(t, err)
			key := fmt.Sprintf("%d/%d", year, seq)
			prev, dup := seen[num]
			require.False(t, dup, "number %s produced by %s and %s", num, prev, key)
			seen[num] = key
		}
	}
}

func TestNumberRejectsBadInput(t *testing.T) {
	_, err := Number("", 2025, 1)
	assert.Error(t, err)

	_, err = Number(DefaultNumberTemplate, 0, 1)
	assert.Error(t, err)

	_, err = Number(DefaultNumberTemplate, 2025, 0)
	assert.Error(t, err)

	_, err = Number("{NOPE}-{SEQ}", 2025, 1)
	assert.Error(t, err)
}
