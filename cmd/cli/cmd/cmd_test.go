package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pajakin/adapters/profile"
	perrors "pajakin/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

type jsonResult struct {
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	Tax           struct {
		AnnualTax  decimal.Decimal `json:"annual_tax"`
		MonthlyTax decimal.Decimal `json:"monthly_tax"`
	} `json:"tax"`
	Assessment *struct {
		GrossIncome    decimal.Decimal `json:"gross_income"`
		LineDeductions decimal.Decimal `json:"line_deductions"`
	} `json:"assessment"`
	Metadata struct {
		Source  string `json:"source"`
		Profile string `json:"profile"`
	} `json:"metadata"`
}

func decodeResult(t *testing.T, out string) jsonResult {
	t.Helper()
	var r jsonResult
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	return r
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		input string
		want  profile.Line
	}{
		{"10000000x12", profile.Line{Amount: "10000000", Occurrence: "12"}},
		{"10000000X12", profile.Line{Amount: "10000000", Occurrence: "12"}},
		{"10000000*12", profile.Line{Amount: "10000000", Occurrence: "12"}},
		{"5000000", profile.Line{Amount: "5000000"}},
		{"salary=10_000_000x12", profile.Line{Description: "salary", Amount: "10_000_000", Occurrence: "12"}},
		{" bonus = Rp5000000 ", profile.Line{Description: "bonus", Amount: "Rp5000000"}},
		{"100x", profile.Line{Amount: "100", Occurrence: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLine(tt.input))
		})
	}
}

func TestCalculateJSON(t *testing.T) {
	out, err := execute(t, "calculate", "-c", "TK/0", "-i", "salary=10000000x12", "--format", "json")
	require.NoError(t, err)

	r := decodeResult(t, out)
	assert.True(t, r.TaxableIncome.Equal(decimal.NewFromInt(66_000_000)))
	assert.True(t, r.Tax.AnnualTax.Equal(decimal.NewFromInt(3_900_000)))
	assert.True(t, r.Tax.MonthlyTax.Equal(decimal.NewFromInt(325_000)))
	assert.Equal(t, "cli", r.Metadata.Source)
}

func TestCalculateWithDeductionsAndOccupationalCost(t *testing.T) {
	out, err := execute(t, "calculate",
		"-c", "tk/0",
		"-i", "10000000x12",
		"-d", "pension=500000x12",
		"--occupational-cost",
		"-f", "json")
	require.NoError(t, err)

	r := decodeResult(t, out)
	require.NotNil(t, r.Assessment)
	assert.True(t, r.Assessment.LineDeductions.Equal(decimal.NewFromInt(6_000_000)))
	// 120M - 6M lines - 6M occupational - 54M PTKP
	assert.True(t, r.TaxableIncome.Equal(decimal.NewFromInt(54_000_000)))
	assert.True(t, r.Tax.AnnualTax.Equal(decimal.NewFromInt(2_700_000)))
}

func TestCalculateFromProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
category: K/0
incomes:
  - description: gaji
    amount: 10000000
    occurrence: 12
`), 0644))

	out, err := execute(t, "calculate", "--profile", path, "-i", "bonus=8500000", "-c", "TK/0", "-f", "json")
	require.NoError(t, err)

	r := decodeResult(t, out)
	require.NotNil(t, r.Assessment)
	assert.True(t, r.Assessment.GrossIncome.Equal(decimal.NewFromInt(128_500_000)))
	// category flag wins over the profile: 128.5M - 54M
	assert.True(t, r.TaxableIncome.Equal(decimal.NewFromInt(74_500_000)))
	assert.Equal(t, "profile", r.Metadata.Source)
	assert.Equal(t, path, r.Metadata.Profile)
}

func TestCalculateCLIOutput(t *testing.T) {
	out, err := execute(t, "calculate", "-c", "TK/0", "-i", "10000000x12")
	require.NoError(t, err)
	assert.Contains(t, out, "Rp3.900.000,00")
	assert.Contains(t, out, "Rp325.000,00")
	assert.Contains(t, out, "Tidak Kawin Tanpa Tanggungan")
}

func TestCalculateErrors(t *testing.T) {
	_, err := execute(t, "calculate", "-c", "TK/0")
	assert.ErrorContains(t, err, "no income lines")

	_, err = execute(t, "calculate", "-c", "TK/0", "-i", "10000000xtwelve")
	assert.True(t, perrors.IsType(err, perrors.TypeInput), "%v", err)

	_, err = execute(t, "calculate", "-c", "TK/9", "-i", "10000000")
	assert.True(t, perrors.IsType(err, perrors.TypeCategory), "%v", err)

	_, err = execute(t, "calculate", "-i", "10000000", "-f", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = execute(t, "calculate", "--profile", filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, perrors.IsType(err, perrors.TypeParsing), "%v", err)
}

func TestTaxCommand(t *testing.T) {
	out, err := execute(t, "tax", "100000000", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "**Rp9.000.000,00**")
	assert.Contains(t, out, "**Rp750.000,00**")

	_, err = execute(t, "tax", "lots")
	assert.True(t, perrors.IsType(err, perrors.TypeInput))
}

func TestTaxCommandPDF(t *testing.T) {
	_, err := execute(t, "tax", "100000000", "--format", "pdf")
	assert.ErrorContains(t, err, "--out")

	path := filepath.Join(t.TempDir(), "tax.pdf")
	_, err = execute(t, "tax", "100000000", "--format", "pdf", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestBracketsCommand(t *testing.T) {
	out, err := execute(t, "brackets")
	require.NoError(t, err)
	assert.Contains(t, out, "and above")
	assert.Contains(t, out, "35%")
	assert.Contains(t, out, "Rp5.000.000.000,00")

	out, err = execute(t, "brackets", "--json")
	require.NoError(t, err)
	var brackets []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &brackets))
	assert.Len(t, brackets, 5)
}

func TestCategoriesCommand(t *testing.T) {
	out, err := execute(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "K/I/3")
	assert.Contains(t, out, "Rp126.000.000,00")

	out, err = execute(t, "categories", "k/i/2", "--json")
	require.NoError(t, err)
	var cats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "K/I/2", cats[0]["code"])

	_, err = execute(t, "categories", "X/1")
	assert.True(t, perrors.IsType(err, perrors.TypeCategory))
}

func TestConfigFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pajakin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
calculation:
  default_category: K/0
output:
  default_format: json
`), 0644))

	out, err := execute(t, "--config", path, "calculate", "-i", "10000000x12")
	require.NoError(t, err)

	r := decodeResult(t, out)
	// 120M - 58.5M PTKP for K/0
	assert.True(t, r.TaxableIncome.Equal(decimal.NewFromInt(61_500_000)))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pajakin version")
}
