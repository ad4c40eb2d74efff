package schedule

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"pajakin/core/types"
	perrors "pajakin/internal/errors"
)

// DefaultCategory is the status assumed by the calculator form
const DefaultCategory types.CategoryCode = "TK/0"

// TK = tidak kawin (single), K = kawin (married), K/I = married with the
// spouse's income combined. The suffix is the number of dependents (max 3).
var categories = []types.Category{
	category("TK/0", "Tidak Kawin Tanpa Tanggungan", 54_000_000),
	category("TK/1", "Tidak Kawin 1 Tanggungan", 58_500_000),
	category("TK/2", "Tidak Kawin 2 Tanggungan", 63_000_000),
	category("TK/3", "Tidak Kawin 3 Tanggungan", 67_500_000),
	category("K/0", "Kawin Tanpa Tanggungan", 58_500_000),
	category("K/1", "Kawin 1 Tanggungan", 63_000_000),
	category("K/2", "Kawin 2 Tanggungan", 67_500_000),
	category("K/3", "Kawin 3 Tanggungan", 72_000_000),
	category("K/I/0", "Kawin dan Istri Digabung, Tanpa Tanggungan", 112_500_000),
	category("K/I/1", "Kawin dan Istri Digabung, 1 Tanggungan", 117_000_000),
	category("K/I/2", "Kawin dan Istri Digabung, 2 Tanggungan", 121_500_000),
	category("K/I/3", "Kawin dan Istri Digabung, 3 Tanggungan", 126_000_000),
}

var categoryIndex = lo.KeyBy(categories, func(c types.Category) types.CategoryCode {
	return c.Code
})

func category(code, desc string, exemption int64) types.Category {
	return types.Category{
		Code:        types.CategoryCode(code),
		Description: desc,
		Exemption:   decimal.NewFromInt(exemption),
	}
}

// Lookup returns the category for code. Surrounding whitespace and letter
// case are ignored; any other unknown code is an INVALID_CATEGORY error.
func Lookup(code string) (types.Category, error) {
	c, ok := categoryIndex[NormalizeCode(code)]
	if !ok {
		return types.Category{}, perrors.InvalidCategory(code)
	}
	return c, nil
}

// NormalizeCode trims whitespace and upper-cases a user-typed code
func NormalizeCode(code string) types.CategoryCode {
	return types.CategoryCode(strings.ToUpper(strings.TrimSpace(code)))
}

// Categories returns every category in canonical order
func Categories() []types.Category {
	out := make([]types.Category, len(categories))
	copy(out, categories)
	return out
}

// Codes returns the known codes in canonical order
func Codes() []types.CategoryCode {
	return lo.Map(categories, func(c types.Category, _ int) types.CategoryCode {
		return c.Code
	})
}
