// Package cmd - tax, brackets and categories commands
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pajakin/core/income"
	"pajakin/core/output"
	"pajakin/core/schedule"
	"pajakin/core/types"
	"pajakin/internal/config"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// taxCmd applies the brackets to an already derived taxable income
func taxCmd() *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "tax <taxable-income>",
		Short: "Apply the brackets to a taxable income (PKP)",
		Long: `Compute the per-bracket breakdown, annual tax and monthly tax for an
already derived taxable income. No exemption or deduction is applied.

Examples:
  pajakin tax 100000000
  pajakin tax Rp250_000_000 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taxable, err := income.ParseAmount(args[0])
			if err != nil {
				return err
			}

			eng, err := newEngine()
			if err != nil {
				return err
			}
			summary, err := eng.ComputeTaxable(cmd.Context(), taxable)
			if err != nil {
				return err
			}

			return render(cmd, flags, output.FromSummary(taxable, summary, metadata("")))
		},
	}

	flags.register(cmd)
	return cmd
}

// bracketsCmd lists the statutory schedule
func bracketsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "brackets",
		Short: "List the progressive tax brackets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			brackets := schedule.Brackets()
			if asJSON {
				return writeIndentedJSON(cmd, brackets)
			}

			places := config.Get().Output.DecimalPlaces
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\t%s\t\n",
				headerStyle.Render("From"),
				headerStyle.Render("Up to"),
				headerStyle.Render("Rate"))
			for _, b := range brackets {
				upper := "and above"
				if !b.Unbounded() {
					upper = output.FormatRupiah(b.Upper.Decimal, places)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", output.FormatRupiah(b.Lower, places), upper, output.FormatPercent(b.Rate))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// categoriesCmd lists PTKP categories, or shows one
func categoriesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categories [code]",
		Short: "List PTKP taxpayer categories and their thresholds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := schedule.Categories()
			if len(args) == 1 {
				cat, err := schedule.Lookup(args[0])
				if err != nil {
					return err
				}
				categories = []types.Category{cat}
			}
			if asJSON {
				return writeIndentedJSON(cmd, categories)
			}

			places := config.Get().Output.DecimalPlaces
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("Code"),
				headerStyle.Render("PTKP"),
				headerStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("-", 6), strings.Repeat("-", 18), strings.Repeat("-", 44))
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Code, output.FormatRupiah(c.Exemption, places), c.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func writeIndentedJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
