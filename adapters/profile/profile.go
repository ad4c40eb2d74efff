// Package profile loads calculation inputs from files so a tax assessment can
// be reproduced without filling a form. HCL, YAML and JSON are supported.
package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"pajakin/core/income"
	"pajakin/core/types"
	perrors "pajakin/internal/errors"
)

// Format identifies a profile file format
type Format string

const (
	FormatHCL  Format = "hcl"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Profile is a saved calculator form
type Profile struct {
	// Category is the PTKP code (empty = caller's default)
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// OccupationalCost overrides the configured default when set
	OccupationalCost *bool `json:"occupational_cost,omitempty" yaml:"occupational_cost,omitempty"`

	Incomes    []Line `json:"incomes" yaml:"incomes"`
	Deductions []Line `json:"deductions,omitempty" yaml:"deductions,omitempty"`

	// Source is the file the profile came from
	Source string `json:"-" yaml:"-"`
}

// Line is one row as typed by the user; amounts and counts stay text until
// Entries validates them.
type Line struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Amount      Scalar `json:"amount" yaml:"amount"`
	Occurrence  Scalar `json:"occurrence,omitempty" yaml:"occurrence,omitempty"`
}

// Scalar is a string that also accepts a bare JSON number
type Scalar string

// UnmarshalJSON accepts "12", 12 and null
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*s = Scalar(n.String())
		return nil
	}
	var str *string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str != nil {
		*s = Scalar(*str)
	}
	return nil
}

// Entries validates every line and returns annualised entries
func (p *Profile) Entries() (incomes, deductions []types.Entry, err error) {
	incomes, err = toEntries(p.Incomes)
	if err != nil {
		return nil, nil, err
	}
	deductions, err = toEntries(p.Deductions)
	if err != nil {
		return nil, nil, err
	}
	return incomes, deductions, nil
}

func toEntries(lines []Line) ([]types.Entry, error) {
	out := make([]types.Entry, 0, len(lines))
	for _, l := range lines {
		e, err := income.ParseEntry(l.Description, string(l.Amount), string(l.Occurrence))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// DetectFormat maps a file extension to a format
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return FormatHCL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", perrors.Parsing("unsupported profile extension "+filepath.Ext(path), nil).
			WithContext("path", path)
	}
}

// Load reads a profile, choosing the decoder from the file extension
func Load(path string) (*Profile, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Parsing("failed to read profile", err).WithContext("path", path)
	}
	p, err := Parse(src, path, format)
	if err != nil {
		return nil, err
	}
	p.Source = path
	return p, nil
}

// Parse decodes src in the given format; filename is used in diagnostics
func Parse(src []byte, filename string, format Format) (*Profile, error) {
	switch format {
	case FormatHCL:
		return parseHCL(src, filename)
	case FormatYAML:
		return parseYAML(src, filename)
	case FormatJSON:
		var p Profile
		if err := json.Unmarshal(src, &p); err != nil {
			return nil, perrors.Parsing("invalid JSON profile "+filename, err)
		}
		return &p, nil
	default:
		return nil, perrors.Parsing("unsupported profile format "+string(format), nil)
	}
}
