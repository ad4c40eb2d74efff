// Package schedule - Table validation
// Ensures bracket tables keep their ordering and coverage invariants.
package schedule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pajakin/core/types"
)

// BracketRule checks a single bracket against its predecessor (nil for the first)
type BracketRule func(prev *types.Bracket, cur types.Bracket) error

// DefaultBracketRules returns the standard per-bracket rules
func DefaultBracketRules() []BracketRule {
	return []BracketRule{
		validateStartsAtZero,
		validateContiguous,
		validateRate,
		validateWidth,
	}
}

// ValidateBrackets checks a table against the per-bracket rules and the
// table-level requirement that only the last bracket is unbounded.
func ValidateBrackets(table []types.Bracket) []error {
	if len(table) == 0 {
		return []error{fmt.Errorf("bracket table is empty")}
	}

	var errs []error
	rules := DefaultBracketRules()
	for i := range table {
		var prev *types.Bracket
		if i > 0 {
			prev = &table[i-1]
		}
		for _, rule := range rules {
			if err := rule(prev, table[i]); err != nil {
				errs = append(errs, fmt.Errorf("bracket %d (%s): %w", i, table[i].Label, err))
			}
		}
		last := i == len(table)-1
		if table[i].Unbounded() != last {
			if last {
				errs = append(errs, fmt.Errorf("bracket %d (%s): last bracket must be unbounded", i, table[i].Label))
			} else {
				errs = append(errs, fmt.Errorf("bracket %d (%s): only the last bracket may be unbounded", i, table[i].Label))
			}
		}
	}
	return errs
}

// MustValidateBrackets panics if validation fails
func MustValidateBrackets(table []types.Bracket) {
	errs := ValidateBrackets(table)
	if len(errs) > 0 {
		panic(fmt.Sprintf("bracket table has %d validation errors: %v", len(errs), errs))
	}
}

func validateStartsAtZero(prev *types.Bracket, cur types.Bracket) error {
	if prev == nil && !cur.Lower.IsZero() {
		return fmt.Errorf("first bracket must start at 0, starts at %s", cur.Lower)
	}
	return nil
}

func validateContiguous(prev *types.Bracket, cur types.Bracket) error {
	if prev == nil || prev.Unbounded() {
		return nil
	}
	if !prev.Upper.Decimal.Equal(cur.Lower) {
		return fmt.Errorf("gap or overlap: previous upper %s, lower %s", prev.Upper.Decimal, cur.Lower)
	}
	return nil
}

func validateRate(_ *types.Bracket, cur types.Bracket) error {
	if !cur.Rate.IsPositive() || cur.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("rate %s outside (0,1]", cur.Rate)
	}
	return nil
}

func validateWidth(_ *types.Bracket, cur types.Bracket) error {
	if cur.Lower.IsNegative() {
		return fmt.Errorf("negative lower bound %s", cur.Lower)
	}
	if !cur.Unbounded() && !cur.Upper.Decimal.GreaterThan(cur.Lower) {
		return fmt.Errorf("upper %s must exceed lower %s", cur.Upper.Decimal, cur.Lower)
	}
	return nil
}
