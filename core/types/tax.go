// Package types - Tax schedule and result types
package types

import "github.com/shopspring/decimal"

// Bracket is one progressive rate band. Lower is inclusive, Upper is
// exclusive; an invalid Upper means the band has no ceiling.
type Bracket struct {
	// Lower is the first rupiah taxed in this band
	Lower decimal.Decimal `json:"lower"`

	// Upper is the exclusive ceiling (null = unbounded)
	Upper decimal.NullDecimal `json:"upper"`

	// Rate is the marginal rate as a fraction, e.g. 0.05
	Rate decimal.Decimal `json:"rate"`

	// Label is a display name, e.g. "Rp60juta - Rp250juta"
	Label string `json:"label"`
}

// Unbounded reports whether the bracket has no upper limit
func (b Bracket) Unbounded() bool {
	return !b.Upper.Valid
}

// Category is a PTKP taxpayer status with its annual non-taxable threshold
type Category struct {
	Code        CategoryCode    `json:"code"`
	Description string          `json:"description"`
	Exemption   decimal.Decimal `json:"exemption"`
}

// BracketResult is the share of taxable income that fell in one bracket
type BracketResult struct {
	Bracket

	// TaxablePortion is how much of the income falls within this bracket
	TaxablePortion decimal.Decimal `json:"taxable_portion"`

	// TaxOwed is TaxablePortion * Rate, unrounded
	TaxOwed decimal.Decimal `json:"tax_owed"`
}

// TaxSummary aggregates a bracket breakdown
type TaxSummary struct {
	PerBracket []BracketResult `json:"per_bracket"`
	AnnualTax  decimal.Decimal `json:"annual_tax"`
	MonthlyTax decimal.Decimal `json:"monthly_tax"`
}

// Entry is one income or deduction line: Amount repeated Occurrence times a year
type Entry struct {
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Occurrence  decimal.Decimal `json:"occurrence"`
}

// Annual returns Amount * Occurrence
func (e Entry) Annual() decimal.Decimal {
	return e.Amount.Mul(e.Occurrence)
}

// StepDeduction records an amount removed by a pre-processing step
type StepDeduction struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Assessment is the full derivation from line items to tax owed
type Assessment struct {
	// Category is the taxpayer status the exemption came from
	Category Category `json:"category"`

	// Incomes and Deductions are the line items as supplied
	Incomes    []Entry `json:"incomes"`
	Deductions []Entry `json:"deductions"`

	// GrossIncome is the annual sum of income lines
	GrossIncome decimal.Decimal `json:"gross_income"`

	// LineDeductions is the annual sum of deduction lines
	LineDeductions decimal.Decimal `json:"line_deductions"`

	// Steps lists optional pre-processing deductions that were applied
	Steps []StepDeduction `json:"steps,omitempty"`

	// NetIncome is GrossIncome minus all deductions (may be negative)
	NetIncome decimal.Decimal `json:"net_income"`

	// TaxableIncome is max(NetIncome - exemption, 0)
	TaxableIncome decimal.Decimal `json:"taxable_income"`

	// Tax is the bracket breakdown and totals
	Tax TaxSummary `json:"tax"`

	// EffectiveRate is AnnualTax / GrossIncome (zero when there is no income)
	EffectiveRate decimal.Decimal `json:"effective_rate"`
}
