package output

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// PDFFormatter renders a one-page A4 report
type PDFFormatter struct {
	opts Options
}

// NewPDFFormatter creates a PDF formatter
func NewPDFFormatter(opts Options) *PDFFormatter {
	return &PDFFormatter{opts: opts}
}

// Format implements Formatter
func (f *PDFFormatter) Format() Format {
	return FormatPDF
}

// Render implements Formatter
func (f *PDFFormatter) Render(w io.Writer, result *Result) error {
	money := func(d decimal.Decimal) string { return FormatRupiah(d, f.opts.DecimalPlaces) }

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("PPh 21 progressive tax", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "PPh 21 progressive tax")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if a := result.Assessment; a != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Category: %s (%s)", a.Category.Code, a.Category.Description))
		pdf.Ln(9)
		if f.opts.ShowDetails {
			line := func(label string, amount decimal.Decimal) {
				pdf.CellFormat(90, 7, label, "", 0, "L", false, 0, "")
				pdf.CellFormat(60, 7, money(amount), "", 1, "R", false, 0, "")
			}
			line("Gross income", a.GrossIncome)
			line("Deductions", a.LineDeductions)
			for _, s := range a.Steps {
				line(stepLabel(s.Name), s.Amount)
			}
			line("Net income", a.NetIncome)
			line("Non-taxable income (PTKP)", a.Category.Exemption)
			pdf.Ln(3)
		}
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 7, "Taxable income (PKP)", "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, money(result.TaxableIncome), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	widths := []float64{55, 20, 55, 55}
	for i, h := range []string{"Bracket", "Rate", "Taxable portion", "Tax owed"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range result.Tax.PerBracket {
		pdf.CellFormat(widths[0], 7, r.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, FormatPercent(r.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, money(r.TaxablePortion), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, money(r.TaxOwed), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Ln(4)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "Annual tax", "", 0, "L", false, 0, "")
	pdf.CellFormat(widths[3], 8, money(result.Tax.AnnualTax), "", 1, "R", false, 0, "")
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "Monthly tax", "", 0, "L", false, 0, "")
	pdf.CellFormat(widths[3], 8, money(result.Tax.MonthlyTax), "", 1, "R", false, 0, "")

	if result.Metadata.Timestamp != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("Generated %s by pajakin %s", result.Metadata.Timestamp, result.Metadata.Version))
	}

	return pdf.Output(w)
}
