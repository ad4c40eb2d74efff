package output

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah renders an amount the id-ID way: "Rp1.234.567,50".
// The amount is rounded half away from zero to places digits.
func FormatRupiah(d decimal.Decimal, places int32) string {
	if places < 0 {
		places = 0
	}
	rounded := d.Round(places)

	fixed := rounded.Abs().StringFixed(places)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString("Rp")
	b.WriteString(groupThousands(intPart))
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatPercent renders a fractional rate as a percentage: 0.05 -> "5%"
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
