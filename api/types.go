// Package api - API types for tax calculation
// These types define the contract for the HTTP endpoints.
// API is stateless, idempotent, and deterministic.
package api

import (
	"pajakin/adapters/profile"
	"pajakin/core/output"
	"pajakin/core/types"
)

// CalculateRequest is the input to POST /calculate. It has the same shape as
// a JSON profile file:
//
//	{
//	  "category": "K/1",
//	  "occupational_cost": true,
//	  "incomes":    [{"description": "salary", "amount": 10000000, "occurrence": 12}],
//	  "deductions": [{"description": "pension", "amount": "200000", "occurrence": "12"}]
//	}
type CalculateRequest = profile.Profile

// ComputeRequest is the input to POST /brackets/compute
type ComputeRequest struct {
	// TaxableIncome is an already derived PKP; number or string
	TaxableIncome profile.Scalar `json:"taxable_income"`
}

// Response wraps every successful calculation
type Response struct {
	// RequestID echoes the X-Request-ID header
	RequestID string `json:"request_id"`

	// InputHash is a SHA-256 of the canonicalised input; equal inputs
	// always produce equal hashes and equal results
	InputHash string `json:"input_hash"`

	*output.Result
}

// BracketsResponse is returned by GET /brackets
type BracketsResponse struct {
	Brackets []types.Bracket `json:"brackets"`
}

// CategoriesResponse is returned by GET /categories
type CategoriesResponse struct {
	Categories []types.Category `json:"categories"`
}

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
