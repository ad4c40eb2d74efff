// Package tax - Progressive bracket primitives
// Splits a taxable amount across the rate brackets and totals the result.
// Nothing here rounds; rounding belongs to the output layer.
package tax

import (
	"math"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"pajakin/core/schedule"
	"pajakin/core/types"
	perrors "pajakin/internal/errors"
)

var monthsPerYear = decimal.NewFromInt(types.MonthsPerYear)

// ComputeBracketTax splits taxable income across the PPh 21 schedule.
// Negative input is rejected with INVALID_INPUT rather than clamped.
func ComputeBracketTax(taxable decimal.Decimal) ([]types.BracketResult, error) {
	return ComputeWith(schedule.Brackets(), taxable)
}

// ComputeWith splits taxable income across an explicit bracket table.
// The result has one entry per bracket, in table order.
func ComputeWith(table []types.Bracket, taxable decimal.Decimal) ([]types.BracketResult, error) {
	if taxable.IsNegative() {
		return nil, perrors.InvalidInputf("taxable income must not be negative, got %s", taxable).
			WithContext("taxable_income", taxable.String())
	}

	results := make([]types.BracketResult, 0, len(table))
	for _, b := range table {
		portion := portionIn(b, taxable)
		results = append(results, types.BracketResult{
			Bracket:        b,
			TaxablePortion: portion,
			TaxOwed:        portion.Mul(b.Rate),
		})
	}
	return results, nil
}

// portionIn is the amount of taxable that lands in b: nothing below the
// lower bound, the full width once the upper bound is reached, else the
// marginal remainder.
func portionIn(b types.Bracket, taxable decimal.Decimal) decimal.Decimal {
	switch {
	case taxable.LessThan(b.Lower):
		return decimal.Zero
	case !b.Unbounded() && taxable.GreaterThanOrEqual(b.Upper.Decimal):
		return b.Upper.Decimal.Sub(b.Lower)
	default:
		return taxable.Sub(b.Lower)
	}
}

// Summarize totals a breakdown. Monthly tax is always annual / 12.
func Summarize(results []types.BracketResult) types.TaxSummary {
	annual := lo.Reduce(results, func(acc decimal.Decimal, r types.BracketResult, _ int) decimal.Decimal {
		return acc.Add(r.TaxOwed)
	}, decimal.Zero)

	return types.TaxSummary{
		PerBracket: results,
		AnnualTax:  annual,
		MonthlyTax: annual.Div(monthsPerYear),
	}
}

// Compute is ComputeBracketTax followed by Summarize
func Compute(taxable decimal.Decimal) (types.TaxSummary, error) {
	results, err := ComputeBracketTax(taxable)
	if err != nil {
		return types.TaxSummary{}, err
	}
	return Summarize(results), nil
}

// TotalPortion sums the taxable portions of a breakdown
func TotalPortion(results []types.BracketResult) decimal.Decimal {
	return lo.Reduce(results, func(acc decimal.Decimal, r types.BracketResult, _ int) decimal.Decimal {
		return acc.Add(r.TaxablePortion)
	}, decimal.Zero)
}

// MarginalIndex returns the index of the bracket with
// lower <= taxable < upper, or -1 for negative input.
func MarginalIndex(table []types.Bracket, taxable decimal.Decimal) int {
	if taxable.IsNegative() {
		return -1
	}
	_, idx, ok := lo.FindIndexOf(table, func(b types.Bracket) bool {
		return taxable.GreaterThanOrEqual(b.Lower) &&
			(b.Unbounded() || taxable.LessThan(b.Upper.Decimal))
	})
	if !ok {
		return -1
	}
	return idx
}

// TaxableIncome derives PKP: gross minus the exemption and any further
// deductions, floored at zero.
func TaxableIncome(gross, exemption decimal.Decimal, deductions ...decimal.Decimal) decimal.Decimal {
	net := gross.Sub(exemption)
	for _, d := range deductions {
		net = net.Sub(d)
	}
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// FromFloat converts a float amount, rejecting NaN and infinities
func FromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, perrors.InvalidInputf("amount must be finite, got %v", f)
	}
	return decimal.NewFromFloat(f), nil
}
