package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	totalStyle  = lipgloss.NewStyle().Bold(true)
)

const (
	labelWidth  = 24
	rateWidth   = 6
	amountWidth = 24
)

// CLIFormatter renders a terminal table
type CLIFormatter struct {
	opts Options
}

// NewCLIFormatter creates a terminal formatter
func NewCLIFormatter(opts Options) *CLIFormatter {
	return &CLIFormatter{opts: opts}
}

// Format implements Formatter
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render implements Formatter
func (f *CLIFormatter) Render(w io.Writer, result *Result) error {
	var b strings.Builder
	money := func(d decimal.Decimal) string { return FormatRupiah(d, f.opts.DecimalPlaces) }

	b.WriteString(titleStyle.Render("PPh 21 progressive tax"))
	b.WriteString("\n")

	if a := result.Assessment; a != nil {
		fmt.Fprintf(&b, "%s\n\n", mutedStyle.Render(fmt.Sprintf("%s  %s", a.Category.Code, a.Category.Description)))
		if f.opts.ShowDetails {
			row := func(label string, amount decimal.Decimal) {
				fmt.Fprintf(&b, "  %-32s %*s\n", label, amountWidth, money(amount))
			}
			row("Gross income", a.GrossIncome)
			row("Deductions", a.LineDeductions)
			for _, s := range a.Steps {
				row(stepLabel(s.Name), s.Amount)
			}
			row("Net income", a.NetIncome)
			row("Non-taxable income (PTKP)", a.Category.Exemption)
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "  %-32s %*s\n\n", "Taxable income (PKP)", amountWidth, money(result.TaxableIncome))

	header := fmt.Sprintf("  %-*s %*s %*s %*s", labelWidth, "Bracket", rateWidth, "Rate", amountWidth, "Taxable portion", amountWidth, "Tax owed")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")
	b.WriteString("  " + strings.Repeat("─", labelWidth+rateWidth+2*amountWidth+3) + "\n")
	for _, r := range result.Tax.PerBracket {
		fmt.Fprintf(&b, "  %-*s %*s %*s %*s\n",
			labelWidth, truncate(r.Label, labelWidth),
			rateWidth, FormatPercent(r.Rate),
			amountWidth, money(r.TaxablePortion),
			amountWidth, money(r.TaxOwed))
	}
	b.WriteString("  " + strings.Repeat("─", labelWidth+rateWidth+2*amountWidth+3) + "\n")

	b.WriteString(totalStyle.Render(fmt.Sprintf("  %-32s %*s", "Annual tax", amountWidth, money(result.Tax.AnnualTax))))
	b.WriteString("\n")
	b.WriteString(totalStyle.Render(fmt.Sprintf("  %-32s %*s", "Monthly tax", amountWidth, money(result.Tax.MonthlyTax))))
	b.WriteString("\n")
	if a := result.Assessment; a != nil && a.GrossIncome.IsPositive() {
		fmt.Fprintf(&b, "  %-32s %*s\n", "Effective rate", amountWidth, FormatPercent(a.EffectiveRate.Round(4)))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func stepLabel(name string) string {
	switch name {
	case "occupational_cost":
		return "Occupational cost"
	default:
		return strings.ReplaceAll(name, "_", " ")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
