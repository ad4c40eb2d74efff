// Package income turns income and deduction line items into annual totals.
//
// Each line is an amount repeated some number of times per year (12 for a
// monthly salary, 1 for an annual bonus). Repetition counts arrive as free
// text from forms and files; they are parsed strictly, so a typo is reported
// instead of silently zeroing the line.
package income

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"pajakin/core/types"
	perrors "pajakin/internal/errors"
)

// DefaultOccurrence is used when the repetition count is left blank
var DefaultOccurrence = decimal.NewFromInt(1)

const (
	// MaxIntegerDigits bounds the whole-number part of any parsed value
	MaxIntegerDigits = 20

	// MaxFractionDigits bounds the fractional part of any parsed value
	MaxFractionDigits = 10
)

// ParseOccurrence parses a repetition count. Blank means once; anything that
// is not a plain non-negative decimal is an INVALID_INPUT error.
func ParseOccurrence(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultOccurrence, nil
	}
	n, err := parsePlain(text)
	if err != nil {
		return decimal.Zero, perrors.InvalidInputf("occurrence %q is not a number: %s", text, err).
			WithContext("occurrence", text)
	}
	if n.IsNegative() {
		return decimal.Zero, perrors.InvalidInputf("occurrence %q must not be negative", text).
			WithContext("occurrence", text)
	}
	return n, nil
}

// ParseAmount parses a rupiah amount; blank means zero. Spaces and
// underscores are digit separators. With an "Rp" prefix, a comma, or more
// than one dot the text is read the id-ID way ("Rp1.234.567,50"). Otherwise a
// single dot is a decimal point, except that "10.000" is rejected because it
// reads both ways.
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(text)
	rupiah := len(cleaned) >= 2 && strings.EqualFold(cleaned[:2], "rp")
	if rupiah {
		cleaned = cleaned[2:]
	}
	cleaned = strings.NewReplacer(" ", "", "_", "").Replace(cleaned)
	if cleaned == "" {
		return decimal.Zero, nil
	}

	var err error
	switch {
	case rupiah || strings.Contains(cleaned, ",") || strings.Count(cleaned, ".") > 1:
		cleaned, err = normalizeGrouped(cleaned)
	default:
		if _, frac, ok := strings.Cut(cleaned, "."); ok && len(frac) == 3 {
			err = fmt.Errorf("ambiguous separator, write %q or %q", "Rp"+cleaned, strings.Replace(cleaned, ".", "", 1))
		}
	}
	if err != nil {
		return decimal.Zero, perrors.InvalidInputf("amount %q is not a number: %s", text, err).
			WithContext("amount", text)
	}

	n, err := parsePlain(cleaned)
	if err != nil {
		return decimal.Zero, perrors.InvalidInputf("amount %q is not a number: %s", text, err).
			WithContext("amount", text)
	}
	if n.IsNegative() {
		return decimal.Zero, perrors.InvalidInputf("amount %q must not be negative", text).
			WithContext("amount", text)
	}
	return n, nil
}

// normalizeGrouped rewrites "1.234.567,50" as "1234567.50". Dots must split
// the whole part into groups of three.
func normalizeGrouped(text string) (string, error) {
	whole, frac, hasFrac := strings.Cut(text, ",")
	if hasFrac && (frac == "" || strings.ContainsAny(frac, ".,")) {
		return "", fmt.Errorf("malformed decimal part %q", frac)
	}

	groups := strings.Split(whole, ".")
	if len(groups) > 1 {
		for i, g := range groups {
			if g == "" || len(g) > 3 || (i > 0 && len(g) != 3) {
				return "", fmt.Errorf("digit group %q is not three digits", g)
			}
		}
	}

	out := strings.Join(groups, "")
	if hasFrac {
		out += "." + frac
	}
	return out, nil
}

// parsePlain accepts [-+]digits[.digits] only. Exponent notation is refused
// so a short input cannot expand into an enormous number.
func parsePlain(text string) (decimal.Decimal, error) {
	digits := strings.TrimLeft(text, "+-")
	whole, frac, _ := strings.Cut(digits, ".")
	if whole == "" && frac == "" {
		return decimal.Zero, fmt.Errorf("no digits")
	}
	if strings.IndexFunc(whole+frac, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return decimal.Zero, fmt.Errorf("only digits and one decimal point are allowed")
	}
	if len(strings.TrimLeft(whole, "0")) > MaxIntegerDigits {
		return decimal.Zero, fmt.Errorf("more than %d integer digits", MaxIntegerDigits)
	}
	if len(frac) > MaxFractionDigits {
		return decimal.Zero, fmt.Errorf("more than %d fraction digits", MaxFractionDigits)
	}
	return decimal.NewFromString(text)
}

// NewEntry builds a validated line from a numeric amount and a free-text count
func NewEntry(description string, amount decimal.Decimal, occurrence string) (types.Entry, error) {
	if amount.IsNegative() {
		return types.Entry{}, perrors.InvalidInputf("amount %s must not be negative", amount).
			WithContext("description", description)
	}
	n, err := ParseOccurrence(occurrence)
	if err != nil {
		return types.Entry{}, annotate(err, description)
	}
	return types.Entry{Description: description, Amount: amount, Occurrence: n}, nil
}

// ParseEntry builds a validated line from free-text amount and count
func ParseEntry(description, amount, occurrence string) (types.Entry, error) {
	a, err := ParseAmount(amount)
	if err != nil {
		return types.Entry{}, annotate(err, description)
	}
	return NewEntry(description, a, occurrence)
}

// Validate checks a line built elsewhere (e.g. decoded straight from JSON)
func Validate(e types.Entry) error {
	if e.Amount.IsNegative() {
		return perrors.InvalidInputf("amount %s must not be negative", e.Amount).
			WithContext("description", e.Description)
	}
	if e.Occurrence.IsNegative() {
		return perrors.InvalidInputf("occurrence %s must not be negative", e.Occurrence).
			WithContext("description", e.Description)
	}
	return nil
}

// Total is the annual sum of amount * occurrence over all lines
func Total(entries []types.Entry) decimal.Decimal {
	return lo.Reduce(entries, func(acc decimal.Decimal, e types.Entry, _ int) decimal.Decimal {
		return acc.Add(e.Annual())
	}, decimal.Zero)
}

func annotate(err error, description string) error {
	if e, ok := err.(*perrors.Error); ok && description != "" {
		return e.WithContext("description", description)
	}
	return err
}
