package profile

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	perrors "pajakin/internal/errors"
)

// hclProfile is the block schema:
//
//	category          = "K/1"
//	occupational_cost = true
//
//	income "gaji" {
//	  amount     = 10000000
//	  occurrence = 12
//	}
//
//	deduction "iuran pensiun" {
//	  amount     = 100000
//	  occurrence = 12
//	}
type hclProfile struct {
	Category         string    `hcl:"category,optional"`
	OccupationalCost *bool     `hcl:"occupational_cost,optional"`
	Incomes          []hclLine `hcl:"income,block"`
	Deductions       []hclLine `hcl:"deduction,block"`
}

type hclLine struct {
	Name       string `hcl:"name,label"`
	Amount     string `hcl:"amount"`
	Occurrence string `hcl:"occurrence,optional"`
}

func parseHCL(src []byte, filename string) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	var raw hclProfile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	p := &Profile{
		Category:         raw.Category,
		OccupationalCost: raw.OccupationalCost,
		Incomes:          make([]Line, 0, len(raw.Incomes)),
		Deductions:       make([]Line, 0, len(raw.Deductions)),
	}
	for _, l := range raw.Incomes {
		p.Incomes = append(p.Incomes, Line{Description: l.Name, Amount: Scalar(l.Amount), Occurrence: Scalar(l.Occurrence)})
	}
	for _, l := range raw.Deductions {
		p.Deductions = append(p.Deductions, Line{Description: l.Name, Amount: Scalar(l.Amount), Occurrence: Scalar(l.Occurrence)})
	}
	return p, nil
}

func diagnosticsError(filename string, diags hcl.Diagnostics) error {
	err := perrors.Parsing("invalid HCL profile "+filename, diags)
	for _, diag := range diags {
		if diag.Severity == hcl.DiagError && diag.Subject != nil {
			err = err.WithContext("line", diag.Subject.Start.Line)
			break
		}
	}
	return err
}
