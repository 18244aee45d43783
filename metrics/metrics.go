// Package metrics records simulator counters and histograms through the
// OpenTelemetry metric API. Without a configured MeterProvider the global
// no-op meter is used.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/viant/procsim"

// Instrument names
const (
	TransitionsName     = "procsim.process.transitions"
	CycleDurationName   = "procsim.process.cycle.duration"
	CompletedName       = "procsim.process.completed"
	RunsName            = "procsim.runs"
	GateTransitionsName = "procsim.gate.transitions"
)

// Metrics holds the simulator instruments.
type Metrics struct {
	transitions     metric.Int64Counter
	cycleDuration   metric.Float64Histogram
	completed       metric.Int64Counter
	runs            metric.Int64Counter
	gateTransitions metric.Int64Counter
}

// New creates instruments on the supplied meter provider; nil selects the global provider.
func New(provider metric.MeterProvider) (*Metrics, error) {
	var meter metric.Meter
	if provider == nil {
		meter = otel.Meter(meterName)
	} else {
		meter = provider.Meter(meterName)
	}
	ret := &Metrics{}
	var err error
	if ret.transitions, err = meter.Int64Counter(TransitionsName,
		metric.WithDescription("Process lifecycle transitions by target state")); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", TransitionsName, err)
	}
	if ret.cycleDuration, err = meter.Float64Histogram(CycleDurationName,
		metric.WithDescription("Measured Running phase duration in time units"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", CycleDurationName, err)
	}
	if ret.completed, err = meter.Int64Counter(CompletedName,
		metric.WithDescription("Processes that reached the terminated state")); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", CompletedName, err)
	}
	if ret.runs, err = meter.Int64Counter(RunsName,
		metric.WithDescription("Simulation runs by outcome")); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", RunsName, err)
	}
	if ret.gateTransitions, err = meter.Int64Counter(GateTransitionsName,
		metric.WithDescription("Pause gate toggles by action")); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", GateTransitionsName, err)
	}
	return ret, nil
}

// Transition counts a lifecycle transition into state.
func (m *Metrics) Transition(ctx context.Context, state string) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
}

// Cycle records one Running phase duration.
func (m *Metrics) Cycle(ctx context.Context, priority int, elapsed float64) {
	if m == nil {
		return
	}
	m.cycleDuration.Record(ctx, elapsed, metric.WithAttributes(attribute.Int("priority", priority)))
}

// Completed counts a terminated process.
func (m *Metrics) Completed(ctx context.Context) {
	if m == nil {
		return
	}
	m.completed.Add(ctx, 1)
}

// Run counts a run outcome (started, completed, cancelled).
func (m *Metrics) Run(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Gate counts a pause or resume action.
func (m *Metrics) Gate(ctx context.Context, action string) {
	if m == nil {
		return
	}
	m.gateTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}
