// Package renderer writes profile reports as terminal text, JSON, YAML or an
// HTML chart page. Renderers only read the report; they never recompute it.
package renderer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codeme/pkg/renderer/terminal"
	"github.com/Sumatoshi-tech/codeme/pkg/report"
)

// Format names an output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPlot Format = "plot"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

const yamlIndent = 2

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatPlot)}
}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))

	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatPlot:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
}

// Options configure rendering.
type Options struct {
	Terminal terminal.Config
}

// Render writes a single-repository report.
func Render(w io.Writer, f Format, rep *report.Report, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatYAML:
		return writeYAML(w, rep)
	case FormatPlot:
		return writePlot(w, rep, nil)
	case FormatText, "":
		return NewTextRenderer(opts.Terminal).Render(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// RenderMulti writes an aggregated multi-repository report.
func RenderMulti(w io.Writer, f Format, rep *report.MultiReport, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatYAML:
		return writeYAML(w, rep)
	case FormatPlot:
		return writePlot(w, &rep.Report, rep.Projects)
	case FormatText, "":
		return NewTextRenderer(opts.Terminal).RenderMulti(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return nil
}
