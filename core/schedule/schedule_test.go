package schedule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pajakin/core/types"
	perrors "pajakin/internal/errors"
)

func TestBracketTableInvariants(t *testing.T) {
	table := Brackets()
	require.Len(t, table, 5)
	assert.Empty(t, ValidateBrackets(table))

	assert.True(t, table[0].Lower.IsZero())
	assert.True(t, table[len(table)-1].Unbounded())
	for i := 0; i < len(table)-1; i++ {
		assert.True(t, table[i].Upper.Decimal.Equal(table[i+1].Lower), "bracket %d not contiguous", i)
	}

	rates := []string{"0.05", "0.15", "0.25", "0.3", "0.35"}
	for i, want := range rates {
		assert.True(t, table[i].Rate.Equal(decimal.RequireFromString(want)), "bracket %d rate", i)
	}
}

func TestBracketsReturnsCopy(t *testing.T) {
	first := Brackets()
	first[0].Rate = decimal.NewFromInt(1)

	second := Brackets()
	assert.Len(t, second, BracketCount())
	assert.Equal(t, "0.05", second[0].Rate.String())
}

func TestValidateBracketsCatchesBrokenTables(t *testing.T) {
	tests := []struct {
		name  string
		table []types.Bracket
	}{
		{name: "empty", table: nil},
		{
			name: "does not start at zero",
			table: []types.Bracket{
				bounded(10, 20, "0.05", "a"),
				unbounded(20, "0.1", "b"),
			},
		},
		{
			name: "gap between brackets",
			table: []types.Bracket{
				bounded(0, 20, "0.05", "a"),
				unbounded(25, "0.1", "b"),
			},
		},
		{
			name: "overlap between brackets",
			table: []types.Bracket{
				bounded(0, 20, "0.05", "a"),
				unbounded(15, "0.1", "b"),
			},
		},
		{
			name: "last bracket bounded",
			table: []types.Bracket{
				bounded(0, 20, "0.05", "a"),
				bounded(20, 30, "0.1", "b"),
			},
		},
		{
			name: "unbounded in the middle",
			table: []types.Bracket{
				unbounded(0, "0.05", "a"),
				unbounded(20, "0.1", "b"),
			},
		},
		{
			name: "zero rate",
			table: []types.Bracket{
				unbounded(0, "0", "a"),
			},
		},
		{
			name: "rate above one",
			table: []types.Bracket{
				unbounded(0, "1.5", "a"),
			},
		},
		{
			name: "empty width",
			table: []types.Bracket{
				bounded(0, 0, "0.05", "a"),
				unbounded(0, "0.1", "b"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, ValidateBrackets(tt.table))
		})
	}
}

func TestMustValidateBracketsPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustValidateBrackets([]types.Bracket{bounded(0, 10, "0.05", "a")})
	})
	assert.NotPanics(t, func() {
		MustValidateBrackets([]types.Bracket{unbounded(0, "1", "flat")})
	})
}

func TestLookupKnownCategories(t *testing.T) {
	tests := []struct {
		code      string
		exemption int64
	}{
		{"TK/0", 54_000_000},
		{"TK/1", 58_500_000},
		{"TK/2", 63_000_000},
		{"TK/3", 67_500_000},
		{"K/0", 58_500_000},
		{"K/1", 63_000_000},
		{"K/2", 67_500_000},
		{"K/3", 72_000_000},
		{"K/I/0", 112_500_000},
		{"K/I/1", 117_000_000},
		{"K/I/2", 121_500_000},
		{"K/I/3", 126_000_000},
	}

	require.Len(t, Categories(), len(tests))
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c, err := Lookup(tt.code)
			require.NoError(t, err)
			assert.Equal(t, types.CategoryCode(tt.code), c.Code)
			assert.True(t, c.Exemption.Equal(decimal.NewFromInt(tt.exemption)))
			assert.NotEmpty(t, c.Description)
		})
	}
}

func TestLookupNormalizesCaseAndSpace(t *testing.T) {
	c, err := Lookup("  k/i/2 ")
	require.NoError(t, err)
	assert.Equal(t, types.CategoryCode("K/I/2"), c.Code)
}

func TestLookupUnknownCategory(t *testing.T) {
	for _, code := range []string{"X/9", "", "TK/4", "K/I", "TK0"} {
		_, err := Lookup(code)
		require.Error(t, err, code)
		assert.True(t, perrors.IsType(err, perrors.TypeCategory), code)
	}
}

func TestDefaultCategoryIsKnown(t *testing.T) {
	c, err := Lookup(string(DefaultCategory))
	require.NoError(t, err)
	assert.Equal(t, "54000000", c.Exemption.String())
	assert.Equal(t, DefaultCategory, Codes()[0])
}
