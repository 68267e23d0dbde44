// Package metrics provides interfaces for defining self-contained, reusable
// profile metrics.
//
// Each metric is a pure computation unit that:
//   - Declares its input type
//   - Computes a typed output
//   - Provides metadata for documentation and serialization
package metrics

import (
	"math"
	"sort"
)

// Metric is the core interface that all metrics must implement.
type Metric[In, Out any] interface {
	// Name returns the machine-readable identifier (snake_case, unique).
	Name() string

	// DisplayName returns a human-readable name for reports.
	DisplayName() string

	// Description documents what the metric measures and its range.
	Description() string

	// Type returns the metric category (e.g., "ratio", "score", "axis").
	Type() string

	// Compute calculates the metric value from input data.
	Compute(input In) Out
}

// Metric categories.
const (
	TypeRatio = "ratio"
	TypeScore = "score"
	TypeAxis  = "axis"
)

// MetricMeta holds the common metadata for a metric.
// Embed this in metric implementations to satisfy metadata methods.
type MetricMeta struct {
	MetricName        string
	MetricDisplayName string
	MetricDescription string
	MetricType        string
}

// Name returns the machine-readable identifier.
func (m MetricMeta) Name() string { return m.MetricName }

// DisplayName returns a human-readable name for reports.
func (m MetricMeta) DisplayName() string { return m.MetricDisplayName }

// Description returns detailed documentation.
func (m MetricMeta) Description() string { return m.MetricDescription }

// Type returns the metric category.
func (m MetricMeta) Type() string { return m.MetricType }

// Descriptor is the serializable metadata of a registered metric.
type Descriptor struct {
	Name        string `json:"name"         yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Description string `json:"description"  yaml:"description"`
	Type        string `json:"type"         yaml:"type"`
}

type described interface {
	Name() string
	DisplayName() string
	Description() string
	Type() string
}

// Registry holds a collection of metrics that can be computed together.
type Registry struct {
	metrics map[string]described
}

// NewRegistry creates an empty metric registry.
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]described)}
}

// Register adds a metric to the registry.
func Register[In, Out any](r *Registry, m Metric[In, Out]) {
	r.metrics[m.Name()] = m
}

// Get retrieves a metric by name.
func (r *Registry) Get(name string) (any, bool) {
	m, ok := r.metrics[name]

	return m, ok
}

// Names returns all registered metric names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.metrics))

	for name := range r.metrics {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Describe returns the metadata of every registered metric, sorted by name.
func (r *Registry) Describe() []Descriptor {
	out := make([]Descriptor, 0, len(r.metrics))

	for _, name := range r.Names() {
		m := r.metrics[name]
		out = append(out, Descriptor{
			Name:        m.Name(),
			DisplayName: m.DisplayName(),
			Description: m.Description(),
			Type:        m.Type(),
		})
	}

	return out
}

// SafeDiv returns num/den, or fallback when den is zero or the result is
// not a finite number.
func SafeDiv(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}

	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}

	return v
}

// Clamp limits v to [lo, hi]. NaN becomes lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
