package income

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pajakin/core/output"
	"pajakin/core/types"
	perrors "pajakin/internal/errors"
)

func TestParseOccurrence(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "monthly", input: "12", want: "12"},
		{name: "padded", input: "  3 ", want: "3"},
		{name: "blank defaults to once", input: "", want: "1"},
		{name: "zero is allowed", input: "0", want: "0"},
		{name: "fractional", input: "1.5", want: "1.5"},
		{name: "word", input: "twelve", wantErr: true},
		{name: "typo", input: "1O", wantErr: true},
		{name: "negative", input: "-2", wantErr: true},
		{name: "huge exponent", input: "1e2000000", wantErr: true},
		{name: "small exponent", input: "1E3", wantErr: true},
		{name: "too many digits", input: "123456789012345678901", wantErr: true},
		{name: "two points", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOccurrence(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, perrors.IsType(err, perrors.TypeInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "10000000", want: "10000000"},
		{input: "10_000_000", want: "10000000"},
		{input: "Rp 5 000 000", want: "5000000"},
		{input: "1500.50", want: "1500.5"},
		{input: "0.5", want: "0.5"},
		{input: "Rp10.000", want: "10000"},
		{input: "Rp1.234.567,50", want: "1234567.5"},
		{input: "Rp10.000,00", want: "10000"},
		{input: "1.234.567", want: "1234567"},
		{input: "2500,75", want: "2500.75"},
		{input: "", want: "0"},
		{input: "10.000", wantErr: true},
		{input: "rp1500.50", wantErr: true},
		{input: "Rp1.2345", wantErr: true},
		{input: "1,5,0", wantErr: true},
		{input: "1e20000000", wantErr: true},
		{input: "1E3", wantErr: true},
		{input: "Rp1e3", wantErr: true},
		{input: "100000000000000000000000", wantErr: true},
		{input: "0.00000000001", wantErr: true},
		{input: "ten", wantErr: true},
		{input: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, perrors.IsType(err, perrors.TypeInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmountReadsFormattedRupiah(t *testing.T) {
	for _, value := range []string{"10000", "325000", "1234567.5", "5000000000"} {
		want := decimal.RequireFromString(value)
		for _, places := range []int32{0, 2} {
			text := output.FormatRupiah(want, places)
			got, err := ParseAmount(text)
			require.NoError(t, err, text)
			assert.True(t, got.Equal(want.Round(places)), "%s parsed as %s", text, got)
		}
	}
}

func TestParseEntryCarriesDescription(t *testing.T) {
	_, err := ParseEntry("gaji", "10000000", "dua belas")
	require.Error(t, err)

	var domainErr *perrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "gaji", domainErr.Context["description"])
}

func TestNewEntryRejectsNegativeAmount(t *testing.T) {
	_, err := NewEntry("refund", decimal.NewFromInt(-1), "1")
	assert.True(t, perrors.IsType(err, perrors.TypeInput))
}

func TestTotal(t *testing.T) {
	salary, err := ParseEntry("gaji", "10000000", "12")
	require.NoError(t, err)
	bonus, err := ParseEntry("THR", "10000000", "")
	require.NoError(t, err)
	unused, err := ParseEntry("", "0", "1")
	require.NoError(t, err)

	total := Total([]types.Entry{salary, bonus, unused})
	assert.Equal(t, "130000000", total.String())
	assert.True(t, Total(nil).IsZero())
}

func TestValidate(t *testing.T) {
	ok := types.Entry{Amount: decimal.NewFromInt(1), Occurrence: decimal.NewFromInt(12)}
	assert.NoError(t, Validate(ok))

	bad := ok
	bad.Occurrence = decimal.NewFromInt(-1)
	assert.True(t, perrors.IsType(Validate(bad), perrors.TypeInput))

	bad = ok
	bad.Amount = decimal.NewFromInt(-1)
	assert.True(t, perrors.IsType(Validate(bad), perrors.TypeInput))
}
