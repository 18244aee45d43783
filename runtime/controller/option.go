package controller

import (
	"math/rand/v2"

	"github.com/viant/procsim/metrics"
	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/runtime/runner"
	"github.com/viant/procsim/service/dao"
	"github.com/viant/procsim/service/messaging/memory"
	"go.uber.org/zap"
)

type Option func(c *Controller)

// WithProcessConfig sets the ranges used to generate records
func WithProcessConfig(config process.Config) Option {
	return func(c *Controller) {
		c.processConfig = config
	}
}

// WithTiming sets runner delays and the time unit
func WithTiming(timing runner.Timing) Option {
	return func(c *Controller) {
		c.timing = timing
	}
}

// WithQueueConfig sets the notification queue configuration
func WithQueueConfig(config memory.Config) Option {
	return func(c *Controller) {
		c.queueConfig = config
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics sets the metric instruments
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithReportDAO sets the run report store
func WithReportDAO(reports dao.Service[string, process.RunReport]) Option {
	return func(c *Controller) {
		c.reports = reports
	}
}

// WithRand sets the random source used for generation and runner seeding
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = rng
	}
}
