// Package deduction holds optional pre-processing steps that reduce gross
// income before the PTKP exemption is subtracted. Steps are opt-in: the
// calculator never applies one unless the caller passes it.
package deduction

import (
	"github.com/shopspring/decimal"

	"pajakin/core/types"
	perrors "pajakin/internal/errors"
)

// Step computes an amount to deduct from annual gross income
type Step interface {
	// Name identifies the step in breakdowns
	Name() string

	// Deduct returns the non-negative amount removed for the given gross
	Deduct(gross decimal.Decimal) decimal.Decimal
}

// OccupationalCostName is the step name shown in breakdowns
const OccupationalCostName = "occupational_cost"

// OccupationalCost is the "biaya jabatan" deduction: Rate of gross income,
// never more than Cap per year.
type OccupationalCost struct {
	Rate decimal.Decimal
	Cap  decimal.Decimal
}

// DefaultOccupationalCost is 5% of gross, capped at Rp6.000.000 a year
func DefaultOccupationalCost() OccupationalCost {
	return OccupationalCost{
		Rate: decimal.RequireFromString("0.05"),
		Cap:  decimal.NewFromInt(6_000_000),
	}
}

// NewOccupationalCost validates rate in [0,1] and a non-negative cap
func NewOccupationalCost(rate, capAmount decimal.Decimal) (OccupationalCost, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return OccupationalCost{}, perrors.InvalidInputf("occupational cost rate %s outside [0,1]", rate)
	}
	if capAmount.IsNegative() {
		return OccupationalCost{}, perrors.InvalidInputf("occupational cost cap %s must not be negative", capAmount)
	}
	return OccupationalCost{Rate: rate, Cap: capAmount}, nil
}

// Name implements Step
func (OccupationalCost) Name() string {
	return OccupationalCostName
}

// Deduct implements Step: min(Cap, gross * Rate), zero for non-positive gross
func (o OccupationalCost) Deduct(gross decimal.Decimal) decimal.Decimal {
	if !gross.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(o.Cap, gross.Mul(o.Rate))
}

// Apply runs each step against the same gross figure, in order
func Apply(gross decimal.Decimal, steps ...Step) []types.StepDeduction {
	out := make([]types.StepDeduction, 0, len(steps))
	for _, s := range steps {
		out = append(out, types.StepDeduction{Name: s.Name(), Amount: s.Deduct(gross)})
	}
	return out
}

// Sum totals applied step amounts
func Sum(applied []types.StepDeduction) decimal.Decimal {
	total := decimal.Zero
	for _, a := range applied {
		total = total.Add(a.Amount)
	}
	return total
}
