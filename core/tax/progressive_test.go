package tax

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pajakin/core/schedule"
	"pajakin/core/types"
	perrors "pajakin/internal/errors"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func requireEqualDecimal(t *testing.T, want, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if want.Equal(got) {
		return
	}
	context := ""
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			context = fmt.Sprintf(format, msgAndArgs[1:]...)
		}
	}
	require.Failf(t, "decimal mismatch", "want %s, got %s %s", want, got, context)
}

// sampleIncomes covers zero, each boundary, one rupiah either side of each
// boundary, mid-bracket values and very large incomes.
func sampleIncomes() []decimal.Decimal {
	out := []decimal.Decimal{d(0), d(1), d(10_000_000_000_000), decimal.RequireFromString("123456789.75")}
	for _, b := range schedule.Brackets() {
		out = append(out, b.Lower, b.Lower.Add(d(1)))
		if b.Lower.IsPositive() {
			out = append(out, b.Lower.Sub(d(1)))
		}
		if !b.Unbounded() {
			mid := b.Lower.Add(b.Upper.Decimal).Div(d(2))
			out = append(out, mid)
		}
	}
	return out
}

func TestComputeBracketTaxScenario(t *testing.T) {
	results, err := ComputeBracketTax(d(100_000_000))
	require.NoError(t, err)
	require.Len(t, results, 5)

	wantPortion := []int64{60_000_000, 40_000_000, 0, 0, 0}
	wantTax := []int64{3_000_000, 6_000_000, 0, 0, 0}
	for i := range results {
		requireEqualDecimal(t, d(wantPortion[i]), results[i].TaxablePortion, "portion %d", i)
		requireEqualDecimal(t, d(wantTax[i]), results[i].TaxOwed, "tax %d", i)
	}

	summary := Summarize(results)
	requireEqualDecimal(t, d(9_000_000), summary.AnnualTax)
	requireEqualDecimal(t, d(750_000), summary.MonthlyTax)
}

func TestComputeFromCategoryScenario(t *testing.T) {
	cat, err := schedule.Lookup("TK/0")
	require.NoError(t, err)

	taxable := TaxableIncome(d(120_000_000), cat.Exemption)
	requireEqualDecimal(t, d(66_000_000), taxable)

	summary, err := Compute(taxable)
	require.NoError(t, err)
	requireEqualDecimal(t, d(3_000_000), summary.PerBracket[0].TaxOwed)
	requireEqualDecimal(t, d(6_000_000), summary.PerBracket[1].TaxablePortion)
	requireEqualDecimal(t, d(900_000), summary.PerBracket[1].TaxOwed)
	requireEqualDecimal(t, d(3_900_000), summary.AnnualTax)
	requireEqualDecimal(t, d(325_000), summary.MonthlyTax)
}

func TestComputeZero(t *testing.T) {
	summary, err := Compute(decimal.Zero)
	require.NoError(t, err)
	require.Len(t, summary.PerBracket, schedule.BracketCount())
	for _, r := range summary.PerBracket {
		assert.True(t, r.TaxablePortion.IsZero())
		assert.True(t, r.TaxOwed.IsZero())
	}
	assert.True(t, summary.AnnualTax.IsZero())
	assert.True(t, summary.MonthlyTax.IsZero())
}

func TestComputeRejectsNegative(t *testing.T) {
	_, err := ComputeBracketTax(d(-1))
	require.Error(t, err)
	assert.True(t, perrors.IsType(err, perrors.TypeInput))

	_, err = Compute(decimal.RequireFromString("-0.01"))
	assert.True(t, perrors.IsType(err, perrors.TypeInput))
}

func TestBoundaryExactness(t *testing.T) {
	table := schedule.Brackets()
	for i, b := range table[:len(table)-1] {
		upper := b.Upper.Decimal
		results, err := ComputeBracketTax(upper)
		require.NoError(t, err)

		requireEqualDecimal(t, upper.Sub(b.Lower), results[i].TaxablePortion, "bracket %d fully consumed", i)
		assert.True(t, results[i+1].TaxablePortion.IsZero(), "bracket %d starts at zero", i+1)
		assert.Equal(t, i+1, MarginalIndex(table, upper))
	}
}

func TestTopBracketUnbounded(t *testing.T) {
	huge := d(10_000_000_000_000)
	results, err := ComputeBracketTax(huge)
	require.NoError(t, err)

	table := schedule.Brackets()
	last := len(results) - 1
	assert.Equal(t, last, MarginalIndex(table, huge))
	requireEqualDecimal(t, huge.Sub(table[last].Lower), results[last].TaxablePortion)
}

func TestConservation(t *testing.T) {
	for _, x := range sampleIncomes() {
		results, err := ComputeBracketTax(x)
		require.NoError(t, err)
		requireEqualDecimal(t, x, TotalPortion(results), "income %s", x)
	}
}

func TestExactlyOneMarginalBracket(t *testing.T) {
	table := schedule.Brackets()
	for _, x := range sampleIncomes() {
		results, err := ComputeWith(table, x)
		require.NoError(t, err)

		idx := MarginalIndex(table, x)
		require.GreaterOrEqual(t, idx, 0, "income %s", x)
		for i, r := range results {
			switch {
			case i < idx:
				requireEqualDecimal(t, table[i].Upper.Decimal.Sub(table[i].Lower), r.TaxablePortion)
			case i > idx:
				assert.True(t, r.TaxablePortion.IsZero())
			default:
				requireEqualDecimal(t, x.Sub(table[i].Lower), r.TaxablePortion)
			}
		}
	}
}

func TestMonotonicity(t *testing.T) {
	step := d(7_345_678)
	prev := decimal.Zero
	for x := decimal.Zero; x.LessThan(d(6_000_000_000)); x = x.Add(step) {
		summary, err := Compute(x)
		require.NoError(t, err)
		require.True(t, summary.AnnualTax.GreaterThanOrEqual(prev), "tax fell at %s", x)
		prev = summary.AnnualTax
	}
}

func TestNoRoundingInsideBrackets(t *testing.T) {
	results, err := ComputeBracketTax(decimal.RequireFromString("0.01"))
	require.NoError(t, err)
	assert.Equal(t, "0.0005", results[0].TaxOwed.String())
}

func TestComputeWithCustomTable(t *testing.T) {
	flat := []types.Bracket{{Lower: decimal.Zero, Rate: decimal.RequireFromString("0.1"), Label: "flat"}}
	results, err := ComputeWith(flat, d(1_000))
	require.NoError(t, err)
	require.Len(t, results, 1)
	requireEqualDecimal(t, d(100), results[0].TaxOwed)
}

func TestTaxableIncomeFloorsAtZero(t *testing.T) {
	tests := []struct {
		name       string
		gross      int64
		exemption  int64
		deductions []decimal.Decimal
		want       int64
	}{
		{"below exemption", 50_000_000, 54_000_000, nil, 0},
		{"equal to exemption", 54_000_000, 54_000_000, nil, 0},
		{"above exemption", 120_000_000, 54_000_000, nil, 66_000_000},
		{"with deductions", 120_000_000, 54_000_000, []decimal.Decimal{d(6_000_000), d(1_200_000)}, 58_800_000},
		{"deductions push below zero", 60_000_000, 54_000_000, []decimal.Decimal{d(10_000_000)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireEqualDecimal(t, d(tt.want), TaxableIncome(d(tt.gross), d(tt.exemption), tt.deductions...))
		})
	}
}

func TestFromFloat(t *testing.T) {
	v, err := FromFloat(1_500_000.5)
	require.NoError(t, err)
	assert.Equal(t, "1500000.5", v.String())

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FromFloat(f)
		assert.True(t, perrors.IsType(err, perrors.TypeInput))
	}
}

func TestConcurrentCallers(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			summary, err := Compute(d(n * 10_000_000))
			if err != nil {
				errs <- err
				return
			}
			if len(summary.PerBracket) != schedule.BracketCount() {
				errs <- perrors.Internal("wrong bracket count", nil)
			}
		}(int64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
