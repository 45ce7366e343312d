package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExpense(t *testing.T) {
	assert.Equal(t, ExpenseGoederenDiensten, MapExpense("kantoormateriaal"))
	assert.Equal(t, ExpenseGoederenDiensten, MapExpense("abonnementen"))
	assert.Equal(t, ExpenseDienstenDiverse, MapExpense("huur"))
	assert.Equal(t, ExpenseDienstenDiverse, MapExpense("verzekeringen"))
	assert.Equal(t, ExpenseBezoldigingen, MapExpense("lonen"))
	assert.Equal(t, ExpenseAndereUitgaven, MapExpense("bankkosten"))
}

func TestMapExpenseIsTotal(t *testing.T) {
	// Unknown and empty codes must fall back, never drop.
	assert.Equal(t, ExpenseAndereUitgaven, MapExpense("zonnepanelen"))
	assert.Equal(t, ExpenseAndereUitgaven, MapExpense(""))
}

func TestMapIncome(t *testing.T) {
	assert.Equal(t, IncomeLidgeld, MapIncome("membership"))
	assert.Equal(t, IncomeSchenkingen, MapIncome("donation"))
	assert.Equal(t, IncomeSubsidies, MapIncome("subsidy"))
	assert.Equal(t, IncomeAndereOntvangsten, MapIncome("other"))
	assert.Equal(t, IncomeAndereOntvangsten, MapIncome("crowdfunding"))
}

func TestBucketSetsAreClosed(t *testing.T) {
	assert.Len(t, ExpenseBuckets(), 4)
	assert.Len(t, IncomeBuckets(), 4)
	assert.Len(t, BalanceBuckets(), 4)

	for _, raw := range []string{"huur", "lonen", "overig", "bestaat_niet"} {
		assert.Contains(t, ExpenseBuckets(), MapExpense(raw))
	}
	for _, raw := range []string{"membership", "donation", "bestaat_niet"} {
		assert.Contains(t, IncomeBuckets(), MapIncome(raw))
	}
}

func TestValidBalanceBucket(t *testing.T) {
	for _, b := range BalanceBuckets() {
		assert.True(t, ValidBalanceBucket(b))
		assert.Equal(t, b, MapInventory(b))
	}
	assert.False(t, ValidBalanceBucket("kasgeld"))
}
