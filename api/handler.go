// Package api - HTTP handler for tax calculation
// This handler wraps the engine - it contains NO tax logic.
// All logic is delegated to core packages.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"pajakin/adapters/profile"
	"pajakin/core/determinism"
	"pajakin/core/engine"
	"pajakin/core/income"
	"pajakin/core/output"
	"pajakin/core/schedule"
	"pajakin/core/types"
	"pajakin/internal/config"
	perrors "pajakin/internal/errors"
)

// Handler handles calculation requests
type Handler struct {
	engine  *engine.Engine
	calc    config.CalculationConfig
	version string
	logger  *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(eng *engine.Engine, calc config.CalculationConfig, version string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine:  eng,
		calc:    calc,
		version: version,
		logger:  logger,
	}
}

// HandleCalculate handles POST /calculate
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	req, err := profile.Parse(body, "request body", profile.FormatJSON)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = h.calc.DefaultCategory
	}

	incomes, deductions, err := req.Entries()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	steps, err := h.calc.OccupationalCost.Steps(req.OccupationalCost)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	assessment, err := h.engine.Calculate(r.Context(), engine.Request{
		Category:   category,
		Incomes:    incomes,
		Deductions: deductions,
		Steps:      steps,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, Response{
		RequestID: GetRequestID(r.Context()),
		InputHash: hashInput(canonicalCalculation(assessment.Category.Code, incomes, deductions, assessment.Steps)),
		Result:    output.FromAssessment(assessment, h.metadata()),
	}, http.StatusOK)
}

// HandleCompute handles POST /brackets/compute
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var req ComputeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(w, r, perrors.Parsing("invalid JSON", err))
		return
	}
	if strings.TrimSpace(string(req.TaxableIncome)) == "" {
		h.fail(w, r, perrors.InvalidInput("taxable_income is required"))
		return
	}

	taxable, err := income.ParseAmount(string(req.TaxableIncome))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	summary, err := h.engine.ComputeTaxable(r.Context(), taxable)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, Response{
		RequestID: GetRequestID(r.Context()),
		InputHash: hashInput(map[string]string{"taxable_income": taxable.String()}),
		Result:    output.FromSummary(taxable, summary, h.metadata()),
	}, http.StatusOK)
}

// HandleBrackets handles GET /brackets
func (h *Handler) HandleBrackets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, BracketsResponse{Brackets: h.engine.Brackets()}, http.StatusOK)
}

// HandleCategories handles GET /categories
func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, CategoriesResponse{Categories: schedule.Categories()}, http.StatusOK)
}

// HandleCategory handles GET /categories/*. Codes contain slashes
// ("K/I/2"), so the whole remaining path is the code.
func (h *Handler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "*")
	code, err := url.PathUnescape(raw)
	if err != nil {
		code = raw
	}

	cat, err := schedule.Lookup(code)
	if err != nil {
		h.fail(w, r, perrors.NotFound("category", code))
		return
	}
	writeJSON(w, cat, http.StatusOK)
}

func (h *Handler) metadata() output.Metadata {
	return output.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Source:    types.SourceAPI,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("request_id", GetRequestID(r.Context())),
		)
	}

	message := err.Error()
	var de *perrors.Error
	if errors.As(err, &de) {
		message = de.Message
		if de.Cause != nil && status < http.StatusInternalServerError {
			message += ": " + de.Cause.Error()
		}
	}
	writeError(w, r, string(perrors.TypeOf(err)), message, status)
}

// statusFor maps domain error types to HTTP status codes
func statusFor(err error) int {
	switch perrors.TypeOf(err) {
	case perrors.TypeInput, perrors.TypeCategory, perrors.TypeParsing:
		return http.StatusBadRequest
	case perrors.TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, "BODY_TOO_LARGE", "request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		writeError(w, r, string(perrors.TypeParsing), "failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

type canonicalEntry struct {
	Amount     string `json:"amount"`
	Occurrence string `json:"occurrence"`
}

type canonicalInput struct {
	Category   types.CategoryCode `json:"category"`
	Incomes    []canonicalEntry   `json:"incomes"`
	Deductions []canonicalEntry   `json:"deductions"`
	Steps      []canonicalStep    `json:"steps"`
}

type canonicalStep struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// canonicalCalculation drops descriptions and normalises numbers so
// "12" and 12.0 hash the same. Steps are hashed by the amount they actually
// deducted, which covers engine-wide steps and configured rates and caps.
func canonicalCalculation(code types.CategoryCode, incomes, deductions []types.Entry, steps []types.StepDeduction) canonicalInput {
	toCanonical := func(e types.Entry, _ int) canonicalEntry {
		return canonicalEntry{Amount: e.Amount.String(), Occurrence: e.Occurrence.String()}
	}
	return canonicalInput{
		Category:   code,
		Incomes:    lo.Map(incomes, toCanonical),
		Deductions: lo.Map(deductions, toCanonical),
		Steps:      lo.Map(steps, func(s types.StepDeduction, _ int) canonicalStep {
			return canonicalStep{Name: s.Name, Amount: s.Amount.String()}
		}),
	}
}

func hashInput(v any) string {
	hash, err := determinism.HashJSON(v)
	if err != nil {
		return ""
	}
	return hash.Hex()
}
