// Package engine provides the API-primary tax assessment engine.
// CLI and HTTP are thin wrappers around this engine.
package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pajakin/core/deduction"
	"pajakin/core/income"
	"pajakin/core/schedule"
	"pajakin/core/tax"
	"pajakin/core/types"
	perrors "pajakin/internal/errors"
)

// Engine derives taxable income from line items and runs the bracket
// calculator. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	brackets []types.Bracket
	steps    []deduction.Step
	lookup   CategoryLookup
	logger   *zap.Logger
}

// CategoryLookup resolves a PTKP code
type CategoryLookup func(code string) (types.Category, error)

// Option configures an Engine
type Option func(*Engine)

// WithBrackets replaces the statutory schedule (validated by NewEngine)
func WithBrackets(table []types.Bracket) Option {
	return func(e *Engine) {
		e.brackets = append([]types.Bracket(nil), table...)
	}
}

// WithStep adds a pre-processing deduction applied to every request
func WithStep(step deduction.Step) Option {
	return func(e *Engine) {
		e.steps = append(e.steps, step)
	}
}

// WithCategoryLookup replaces the PTKP table
func WithCategoryLookup(lookup CategoryLookup) Option {
	return func(e *Engine) {
		e.lookup = lookup
	}
}

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Request is one assessment: line items plus the taxpayer category
type Request struct {
	// Category is the PTKP code; it is required
	Category string

	// Incomes and Deductions are the annualised line items
	Incomes    []types.Entry
	Deductions []types.Entry

	// Steps are extra pre-processing deductions for this request only
	Steps []deduction.Step
}

// NewEngine creates a new assessment engine
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		brackets: schedule.Brackets(),
		lookup:   schedule.Lookup,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if errs := schedule.ValidateBrackets(e.brackets); len(errs) > 0 {
		return nil, perrors.Config(fmt.Sprintf("invalid bracket table (%d problems)", len(errs)), errs[0])
	}
	if e.lookup == nil {
		return nil, perrors.Config("category lookup is required", nil)
	}
	return e, nil
}

// Brackets returns a copy of the schedule this engine uses
func (e *Engine) Brackets() []types.Bracket {
	return append([]types.Bracket(nil), e.brackets...)
}

// Calculate runs the full derivation:
//
//	gross     = Σ income amount × occurrence
//	net       = gross − Σ deduction lines − Σ steps(gross)
//	taxable   = max(net − exemption, 0)
//	breakdown = brackets(taxable)
func (e *Engine) Calculate(ctx context.Context, req Request) (*types.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat, err := e.lookup(req.Category)
	if err != nil {
		return nil, err
	}

	for _, entry := range req.Incomes {
		if err := income.Validate(entry); err != nil {
			return nil, err
		}
	}
	for _, entry := range req.Deductions {
		if err := income.Validate(entry); err != nil {
			return nil, err
		}
	}

	gross := income.Total(req.Incomes)
	lineDeductions := income.Total(req.Deductions)

	steps := append(append([]deduction.Step(nil), e.steps...), req.Steps...)
	applied := deduction.Apply(gross, steps...)
	stepTotal := deduction.Sum(applied)

	taxable := tax.TaxableIncome(gross, cat.Exemption, lineDeductions, stepTotal)
	results, err := tax.ComputeWith(e.brackets, taxable)
	if err != nil {
		return nil, err
	}
	summary := tax.Summarize(results)

	effective := decimal.Zero
	if gross.IsPositive() {
		effective = summary.AnnualTax.Div(gross)
	}

	e.logger.Debug("assessment computed",
		zap.String("category", cat.Code.String()),
		zap.String("gross_income", gross.String()),
		zap.String("taxable_income", taxable.String()),
		zap.String("annual_tax", summary.AnnualTax.String()),
		zap.Int("steps", len(applied)),
	)

	return &types.Assessment{
		Category:       cat,
		Incomes:        req.Incomes,
		Deductions:     req.Deductions,
		GrossIncome:    gross,
		LineDeductions: lineDeductions,
		Steps:          applied,
		NetIncome:      gross.Sub(lineDeductions).Sub(stepTotal),
		TaxableIncome:  taxable,
		Tax:            summary,
		EffectiveRate:  effective,
	}, nil
}

// ComputeTaxable runs only the bracket calculator on an already derived
// taxable income
func (e *Engine) ComputeTaxable(ctx context.Context, taxable decimal.Decimal) (types.TaxSummary, error) {
	if err := ctx.Err(); err != nil {
		return types.TaxSummary{}, err
	}
	results, err := tax.ComputeWith(e.brackets, taxable)
	if err != nil {
		return types.TaxSummary{}, err
	}
	return tax.Summarize(results), nil
}
