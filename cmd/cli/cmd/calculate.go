// Package cmd - calculate command
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pajakin/adapters/profile"
	"pajakin/core/engine"
	"pajakin/core/output"
	"pajakin/core/types"
	"pajakin/internal/config"
	"pajakin/internal/logging"
)

type calculateFlags struct {
	category         string
	incomes          []string
	deductions       []string
	occupationalCost bool
	profilePath      string
	output           outputFlags
}

// calculateCmd represents the calculate command
func calculateCmd() *cobra.Command {
	flags := &calculateFlags{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate PPh 21 from income and deduction lines",
		Long: `Derive taxable income from income and deduction lines and apply the
progressive brackets.

Each --income or --deduction is "[description=]amount[xN]": the amount
occurs N times a year (default 1). Lines from --profile come first; flag
lines are appended and --category overrides the profile's category.

Examples:
  pajakin calculate --category TK/0 --income salary=10000000x12
  pajakin calculate -c K/1 -i 10000000x12 -i bonus=15000000 -d pension=200000x12
  pajakin calculate --profile me.yaml --occupational-cost --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "PTKP category, e.g. TK/0, K/1, K/I/2 (default from config)")
	cmd.Flags().StringArrayVarP(&flags.incomes, "income", "i", nil, "income line [description=]amount[xN] (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.deductions, "deduction", "d", nil, "deduction line [description=]amount[xN] (repeatable)")
	cmd.Flags().BoolVar(&flags.occupationalCost, "occupational-cost", false, "apply the capped occupational-cost deduction (default from config)")
	cmd.Flags().StringVarP(&flags.profilePath, "profile", "p", "", "load lines from an HCL, YAML or JSON profile")
	flags.output.register(cmd)

	return cmd
}

func runCalculate(cmd *cobra.Command, flags *calculateFlags) error {
	cfg := config.Get()

	p, err := buildProfile(cmd, flags)
	if err != nil {
		return err
	}

	category := strings.TrimSpace(p.Category)
	if category == "" {
		category = cfg.Calculation.DefaultCategory
	}

	incomes, deductions, err := p.Entries()
	if err != nil {
		return err
	}

	steps, err := cfg.Calculation.OccupationalCost.Steps(p.OccupationalCost)
	if err != nil {
		return err
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}

	logging.Debug("calculating",
		zap.String("category", category),
		zap.Int("incomes", len(incomes)),
		zap.Int("deductions", len(deductions)),
		zap.Int("steps", len(steps)),
	)

	assessment, err := eng.Calculate(cmd.Context(), engine.Request{
		Category:   category,
		Incomes:    incomes,
		Deductions: deductions,
		Steps:      steps,
	})
	if err != nil {
		return err
	}

	return render(cmd, flags.output, output.FromAssessment(assessment, metadata(flags.profilePath)))
}

// buildProfile merges --profile with the line flags
func buildProfile(cmd *cobra.Command, flags *calculateFlags) (*profile.Profile, error) {
	p := &profile.Profile{}
	if flags.profilePath != "" {
		loaded, err := profile.Load(flags.profilePath)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	if flags.category != "" {
		p.Category = flags.category
	}
	if cmd.Flags().Changed("occupational-cost") {
		enabled := flags.occupationalCost
		p.OccupationalCost = &enabled
	}

	for _, text := range flags.incomes {
		p.Incomes = append(p.Incomes, parseLine(text))
	}
	for _, text := range flags.deductions {
		p.Deductions = append(p.Deductions, parseLine(text))
	}

	if len(p.Incomes) == 0 {
		return nil, fmt.Errorf("no income lines: pass --income or --profile")
	}
	return p, nil
}

func sourceOf(profilePath string) types.InputSource {
	if profilePath != "" {
		return types.SourceProfile
	}
	return types.SourceCLI
}
