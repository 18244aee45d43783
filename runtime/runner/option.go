package runner

import (
	"math/rand/v2"

	"github.com/viant/procsim/metrics"
	"go.uber.org/zap"
)

type Option func(r *Runner)

// WithTiming sets the delay ranges and time unit
func WithTiming(timing Timing) Option {
	return func(r *Runner) {
		r.timing = timing
	}
}

// WithRand sets the random source; it must not be shared with other goroutines
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) {
		r.rng = rng
	}
}

// WithNotifier sets the transition callback
func WithNotifier(notifier Notifier) Option {
	return func(r *Runner) {
		r.notifier = notifier
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics sets the metric instruments
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}
