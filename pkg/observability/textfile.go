package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Textfile exposes OTel metrics through a private Prometheus registry and
// writes them in the node_exporter textfile format, which suits one-shot
// runs that never live long enough to be scraped.
type Textfile struct {
	path     string
	registry *prometheus.Registry
	exporter *promexporter.Exporter
}

// NewTextfile creates a Textfile that writes to path on Flush.
func NewTextfile(path string) (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Textfile{path: path, registry: registry, exporter: exporter}, nil
}

// Reader returns the metric reader to attach to a MeterProvider.
func (t *Textfile) Reader() sdkmetric.Reader {
	return t.exporter
}

// Gatherer returns the backing registry.
func (t *Textfile) Gatherer() prometheus.Gatherer {
	return t.registry
}

// Flush writes the current metric values to the textfile atomically.
func (t *Textfile) Flush(context.Context) error {
	err := prometheus.WriteToTextfile(t.path, t.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
