// Package category maps raw transaction codes onto the fixed statutory
// report buckets (Bijlage B/C of the Belgian VZW annual accounts).
//
// The bucket sets are a closed, versioned vocabulary: adding a bucket is a
// breaking change that requires migrating historical aggregates.
package category

// ExpenseBucket is a statutory expense category.
type ExpenseBucket string

const (
	ExpenseGoederenDiensten ExpenseBucket = "goederen_diensten"
	ExpenseBezoldigingen    ExpenseBucket = "bezoldigingen"
	ExpenseDienstenDiverse  ExpenseBucket = "diensten_diverse"
	ExpenseAndereUitgaven   ExpenseBucket = "andere_uitgaven"
)

// IncomeBucket is a statutory income category.
type IncomeBucket string

const (
	IncomeLidgeld           IncomeBucket = "lidgeld"
	IncomeSchenkingen       IncomeBucket = "schenkingen"
	IncomeSubsidies         IncomeBucket = "subsidies"
	IncomeAndereOntvangsten IncomeBucket = "andere_ontvangsten"
)

// BalanceBucket is a balance-sheet category for inventory items.
type BalanceBucket string

const (
	BalanceBezittingen    BalanceBucket = "bezittingen"
	BalanceSchulden       BalanceBucket = "schulden"
	BalanceRechten        BalanceBucket = "rechten"
	BalanceVerplichtingen BalanceBucket = "verplichtingen"
)

var expenseTable = map[string]ExpenseBucket{
	"kantoormateriaal":      ExpenseGoederenDiensten,
	"professionele_diensten": ExpenseGoederenDiensten,
	"abonnementen":          ExpenseGoederenDiensten,
	"lonen":                 ExpenseBezoldigingen,
	"sociale_lasten":        ExpenseBezoldigingen,
	"vrijwilligersvergoeding": ExpenseBezoldigingen,
	"huur":                ExpenseDienstenDiverse,
	"nutsvoorzieningen":   ExpenseDienstenDiverse,
	"verzekeringen":       ExpenseDienstenDiverse,
	"reiskosten":          ExpenseDienstenDiverse,
	"representatiekosten": ExpenseDienstenDiverse,
	"bankkosten":          ExpenseAndereUitgaven,
	"overig":              ExpenseAndereUitgaven,
}

var incomeTable = map[string]IncomeBucket{
	"membership":  IncomeLidgeld,
	"donation":    IncomeSchenkingen,
	"subsidy":     IncomeSubsidies,
	"sponsorship": IncomeSchenkingen,
	"event":       IncomeAndereOntvangsten,
	"interest":    IncomeAndereOntvangsten,
	"other":       IncomeAndereOntvangsten,
}

// MapExpense resolves a raw expense category code to its bucket. The mapping
// is total: unknown codes land in andere_uitgaven so no amount is dropped.
func MapExpense(raw string) ExpenseBucket {
	if b, ok := expenseTable[raw]; ok {
		return b
	}
	return ExpenseAndereUitgaven
}

// MapIncome resolves a raw income type to its bucket. The mapping is total:
// unknown types land in andere_ontvangsten.
func MapIncome(raw string) IncomeBucket {
	if b, ok := incomeTable[raw]; ok {
		return b
	}
	return IncomeAndereOntvangsten
}

// MapInventory is the identity: inventory items are stored under their
// balance bucket already.
func MapInventory(b BalanceBucket) BalanceBucket { return b }

// ExpenseBuckets returns the closed expense set in report order.
func ExpenseBuckets() []ExpenseBucket {
	return []ExpenseBucket{
		ExpenseGoederenDiensten,
		ExpenseBezoldigingen,
		ExpenseDienstenDiverse,
		ExpenseAndereUitgaven,
	}
}

// IncomeBuckets returns the closed income set in report order.
func IncomeBuckets() []IncomeBucket {
	return []IncomeBucket{
		IncomeLidgeld,
		IncomeSchenkingen,
		IncomeSubsidies,
		IncomeAndereOntvangsten,
	}
}

// BalanceBuckets returns the closed balance-sheet set in report order.
func BalanceBuckets() []BalanceBucket {
	return []BalanceBucket{
		BalanceBezittingen,
		BalanceSchulden,
		BalanceRechten,
		BalanceVerplichtingen,
	}
}

// ValidBalanceBucket reports whether b is one of the closed balance-sheet
// buckets. Inventory items arrive pre-bucketed, so this is the only place a
// raw balance value is checked.
func ValidBalanceBucket(b BalanceBucket) bool {
	switch b {
	case BalanceBezittingen, BalanceSchulden, BalanceRechten, BalanceVerplichtingen:
		return true
	}
	return false
}
