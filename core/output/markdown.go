package output

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter renders a GitHub-flavoured markdown report
type MarkdownFormatter struct {
	opts Options
}

// NewMarkdownFormatter creates a markdown formatter
func NewMarkdownFormatter(opts Options) *MarkdownFormatter {
	return &MarkdownFormatter{opts: opts}
}

// Format implements Formatter
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render implements Formatter
func (f *MarkdownFormatter) Render(w io.Writer, result *Result) error {
	var b strings.Builder
	places := f.opts.DecimalPlaces

	b.WriteString("## PPh 21 progressive tax\n\n")

	if a := result.Assessment; a != nil {
		fmt.Fprintf(&b, "**Category:** `%s` %s\n\n", a.Category.Code, a.Category.Description)
		if f.opts.ShowDetails {
			b.WriteString("| | Amount |\n|---|---:|\n")
			fmt.Fprintf(&b, "| Gross income | %s |\n", FormatRupiah(a.GrossIncome, places))
			fmt.Fprintf(&b, "| Deductions | %s |\n", FormatRupiah(a.LineDeductions, places))
			for _, s := range a.Steps {
				fmt.Fprintf(&b, "| %s | %s |\n", stepLabel(s.Name), FormatRupiah(s.Amount, places))
			}
			fmt.Fprintf(&b, "| Net income | %s |\n", FormatRupiah(a.NetIncome, places))
			fmt.Fprintf(&b, "| PTKP | %s |\n\n", FormatRupiah(a.Category.Exemption, places))
		}
	}

	fmt.Fprintf(&b, "**Taxable income (PKP):** %s\n\n", FormatRupiah(result.TaxableIncome, places))

	b.WriteString("| Bracket | Rate | Taxable portion | Tax owed |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, r := range result.Tax.PerBracket {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			r.Label, FormatPercent(r.Rate),
			FormatRupiah(r.TaxablePortion, places), FormatRupiah(r.TaxOwed, places))
	}
	fmt.Fprintf(&b, "| **Annual tax** | | | **%s** |\n", FormatRupiah(result.Tax.AnnualTax, places))
	fmt.Fprintf(&b, "| **Monthly tax** | | | **%s** |\n", FormatRupiah(result.Tax.MonthlyTax, places))

	_, err := io.WriteString(w, b.String())
	return err
}
