package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeme/pkg/framework"
	"github.com/Sumatoshi-tech/codeme/pkg/renderer"
	"github.com/Sumatoshi-tech/codeme/pkg/renderer/terminal"
	"github.com/Sumatoshi-tech/codeme/pkg/report"
)

// ErrInvalidSample is returned when --sample is not positive.
var ErrInvalidSample = errors.New("sample must be a positive number of files")

const outputFileMode = 0o644

// analysisFlags are the flags shared by profile and batch.
type analysisFlags struct {
	year     int
	since    string
	until    string
	sample   int
	author   string
	format   string
	output   string
	timezone string
	noColor  bool

	sampleSet bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.year, "year", 0, "Calendar year to analyze (default: current year)")
	cmd.Flags().StringVar(&f.since, "since", "", "Start date YYYY-MM-DD, overrides --year")
	cmd.Flags().StringVar(&f.until, "until", "", "End date YYYY-MM-DD (inclusive), overrides --year")
	cmd.Flags().IntVar(&f.sample, "sample", 0, "Top files sampled for collaboration scores (default from config)")
	cmd.Flags().StringVar(&f.author, "author", "", "Author pattern (default: the repository's git user)")
	cmd.Flags().StringVarP(&f.format, "format", "f", string(renderer.FormatText),
		"Output format: "+strings.Join(renderer.Formats(), ", "))
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "IANA timezone for day and hour buckets (default from config)")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "Disable colored text output")
}

// validate checks the flags that do not depend on configuration.
func (f *analysisFlags) validate(cmd *cobra.Command) (renderer.Format, error) {
	format, err := renderer.ParseFormat(f.format)
	if err != nil {
		return "", err
	}

	f.sampleSet = cmd.Flags().Changed("sample")
	if f.sampleSet && f.sample <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidSample, f.sample)
	}

	return format, nil
}

// jsonOutput reports whether the selected format is JSON.
func (f *analysisFlags) jsonOutput() bool {
	return strings.EqualFold(strings.TrimSpace(f.format), string(renderer.FormatJSON))
}

// request resolves the analyzed period and overrides into a pipeline request.
func (f *analysisFlags) request(loc *time.Location, now time.Time) (framework.Request, error) {
	period, err := report.ResolvePeriod(f.year, f.since, f.until, loc, now)
	if err != nil {
		return framework.Request{}, err
	}

	req := framework.Request{Author: f.author, Period: period}
	if f.sampleSet {
		req.SampleSize = f.sample
	}

	return req, nil
}

// write renders into the output file, or stdout when none is set. Files
// never receive color codes.
func (f *analysisFlags) write(cmd *cobra.Command, render func(io.Writer, renderer.Options) error) error {
	opts := renderer.Options{Terminal: terminal.NewConfig()}
	if f.noColor {
		opts.Terminal.NoColor = true
	}

	if f.output == "" {
		return render(cmd.OutOrStdout(), opts)
	}

	opts.Terminal.NoColor = true

	file, err := os.OpenFile(f.output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFileMode)
	if err != nil {
		return fmt.Errorf("create output %s: %w", f.output, err)
	}

	renderErr := render(file, opts)
	closeErr := file.Close()

	if renderErr != nil {
		return renderErr
	}

	if closeErr != nil {
		return fmt.Errorf("close output %s: %w", f.output, closeErr)
	}

	return nil
}
