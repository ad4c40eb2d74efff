// Package schedule holds the fixed PPh 21 reference tables: the progressive
// rate brackets and the PTKP taxpayer categories. Both tables are built once
// at package initialisation and only ever handed out as copies.
package schedule

import (
	"github.com/shopspring/decimal"

	"pajakin/core/types"
)

var brackets = mustBrackets([]types.Bracket{
	bounded(0, 60_000_000, "0.05", "0 - Rp60juta"),
	bounded(60_000_000, 250_000_000, "0.15", "Rp60juta - Rp250juta"),
	bounded(250_000_000, 500_000_000, "0.25", "Rp250juta - Rp500juta"),
	bounded(500_000_000, 5_000_000_000, "0.30", "Rp500juta - Rp5M"),
	unbounded(5_000_000_000, "0.35", "> Rp5M"),
})

// Brackets returns the progressive schedule in ascending order.
// The slice is a copy; changing it does not affect the table.
func Brackets() []types.Bracket {
	out := make([]types.Bracket, len(brackets))
	copy(out, brackets)
	return out
}

// BracketCount is the number of configured brackets
func BracketCount() int {
	return len(brackets)
}

func bounded(lower, upper int64, rate, label string) types.Bracket {
	return types.Bracket{
		Lower: decimal.NewFromInt(lower),
		Upper: decimal.NewNullDecimal(decimal.NewFromInt(upper)),
		Rate:  decimal.RequireFromString(rate),
		Label: label,
	}
}

func unbounded(lower int64, rate, label string) types.Bracket {
	return types.Bracket{
		Lower: decimal.NewFromInt(lower),
		Rate:  decimal.RequireFromString(rate),
		Label: label,
	}
}

func mustBrackets(table []types.Bracket) []types.Bracket {
	MustValidateBrackets(table)
	return table
}
