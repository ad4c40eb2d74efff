// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// Currency represents a currency code
type Currency string

const (
	CurrencyIDR Currency = "IDR"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// MonthsPerYear is the fixed divisor between annual and monthly tax.
const MonthsPerYear = 12

// CategoryCode identifies a PTKP taxpayer status, e.g. "TK/0" or "K/I/2"
type CategoryCode string

// String returns the string representation
func (c CategoryCode) String() string {
	return string(c)
}

// InputSource identifies where a calculation request came from
type InputSource string

const (
	SourceCLI     InputSource = "cli"
	SourceAPI     InputSource = "api"
	SourceProfile InputSource = "profile"
)
