// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs. It is the only
// place amounts are rounded.
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"pajakin/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"

	// FormatPDF is a one-page PDF report
	FormatPDF Format = "pdf"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Options controls presentation only
type Options struct {
	// DecimalPlaces is the number of fraction digits shown for rupiah
	DecimalPlaces int32

	// ShowDetails includes the income derivation above the bracket table
	ShowDetails bool
}

// DefaultOptions matches the default configuration
func DefaultOptions() Options {
	return Options{DecimalPlaces: 2, ShowDetails: true}
}

// Result contains the complete calculation output
type Result struct {
	// Assessment is the full derivation; nil when only a taxable income
	// was supplied
	Assessment *types.Assessment `json:"assessment,omitempty"`

	// TaxableIncome is the amount the brackets were applied to
	TaxableIncome decimal.Decimal `json:"taxable_income"`

	// Tax is the bracket breakdown and totals
	Tax types.TaxSummary `json:"tax"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the calculation was performed
	Timestamp string `json:"timestamp"`

	// Version is the tool version
	Version string `json:"version"`

	// Source is the input source
	Source types.InputSource `json:"source"`

	// Profile is the profile file, if any
	Profile string `json:"profile,omitempty"`
}

// FromAssessment wraps an engine assessment
func FromAssessment(a *types.Assessment, meta Metadata) *Result {
	return &Result{
		Assessment:    a,
		TaxableIncome: a.TaxableIncome,
		Tax:           a.Tax,
		Metadata:      meta,
	}
}

// FromSummary wraps a bare bracket computation
func FromSummary(taxable decimal.Decimal, summary types.TaxSummary, meta Metadata) *Result {
	return &Result{
		TaxableIncome: taxable,
		Tax:           summary,
		Metadata:      meta,
	}
}

// FormatterRegistry manages formatter registration
type FormatterRegistry interface {
	// Register adds a formatter to the registry
	Register(formatter Formatter) error

	// GetFormatter returns a formatter for a format type
	GetFormatter(format Format) (Formatter, bool)

	// GetAll returns all registered formatters
	GetAll() []Formatter
}

// Registry is the default FormatterRegistry
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[Format]Formatter)}
}

// NewDefaultRegistry registers every built-in formatter
func NewDefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	for _, f := range []Formatter{
		NewCLIFormatter(opts),
		NewJSONFormatter(),
		NewMarkdownFormatter(opts),
		NewPDFFormatter(opts),
	} {
		_ = r.Register(f)
	}
	return r
}

// Register implements FormatterRegistry
func (r *Registry) Register(formatter Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[formatter.Format()]; exists {
		return fmt.Errorf("formatter already registered: %s", formatter.Format())
	}
	r.formatters[formatter.Format()] = formatter
	return nil
}

// GetFormatter implements FormatterRegistry
func (r *Registry) GetFormatter(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	return f, ok
}

// GetAll implements FormatterRegistry, sorted by format name
func (r *Registry) GetAll() []Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Formatter, 0, len(r.formatters))
	for _, f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format() < out[j].Format() })
	return out
}
