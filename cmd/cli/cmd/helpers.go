package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pajakin/adapters/profile"
	"pajakin/core/engine"
	"pajakin/core/output"
	"pajakin/internal/config"
	"pajakin/internal/logging"
	"pajakin/internal/version"
)

// outputFlags are shared by every command that renders a result
type outputFlags struct {
	format  string
	out     string
	details bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format (cli, json, markdown, pdf); default from config")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write output to a file instead of stdout")
	cmd.Flags().BoolVar(&o.details, "details", true, "show the income derivation above the bracket table")
}

// parseLine splits "[description=]amount[xN]" into its parts. The count is
// left as text so the income package reports a bad value.
func parseLine(text string) profile.Line {
	var line profile.Line

	rest := strings.TrimSpace(text)
	if desc, value, ok := strings.Cut(rest, "="); ok {
		line.Description = strings.TrimSpace(desc)
		rest = value
	}

	if i := strings.LastIndexAny(rest, "xX*"); i >= 0 {
		line.Amount = profile.Scalar(strings.TrimSpace(rest[:i]))
		line.Occurrence = profile.Scalar(strings.TrimSpace(rest[i+1:]))
		return line
	}
	line.Amount = profile.Scalar(strings.TrimSpace(rest))
	return line
}

func newEngine() (*engine.Engine, error) {
	return engine.NewEngine(engine.WithLogger(logging.Named("engine")))
}

func metadata(profilePath string) output.Metadata {
	return output.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   version.Version,
		Source:    sourceOf(profilePath),
		Profile:   profilePath,
	}
}

// render writes result in the requested format, falling back to the
// configured defaults for anything the flags leave unset
func render(cmd *cobra.Command, flags outputFlags, result *output.Result) error {
	cfg := config.Get()

	format := output.Format(strings.ToLower(strings.TrimSpace(flags.format)))
	if format == "" {
		format = output.Format(cfg.Output.DefaultFormat)
	}

	opts := output.Options{
		DecimalPlaces: cfg.Output.DecimalPlaces,
		ShowDetails:   cfg.Output.ShowDetails,
	}
	if cmd.Flags().Changed("details") {
		opts.ShowDetails = flags.details
	}

	formatter, ok := output.NewDefaultRegistry(opts).GetFormatter(format)
	if !ok {
		return fmt.Errorf("unknown output format %q (want cli, json, markdown or pdf)", format)
	}
	if format == output.FormatPDF && flags.out == "" {
		return fmt.Errorf("pdf output needs --out")
	}

	var w io.Writer = cmd.OutOrStdout()
	if flags.out != "" {
		f, err := os.Create(flags.out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := formatter.Render(w, result); err != nil {
		return fmt.Errorf("rendering %s output: %w", format, err)
	}
	if flags.out != "" {
		logging.Info("output written", zap.String("path", flags.out), zap.String("format", string(format)))
	}
	return nil
}
