package procsim

import (
	"math/rand/v2"

	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/service/dao"
	"github.com/viant/procsim/tracing"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type Option func(s *Service)

// WithConfig sets the configuration; nil keeps the default
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithReportDAO sets the run report store, overriding report.url
func WithReportDAO(reports dao.Service[string, process.RunReport]) Option {
	return func(s *Service) {
		s.reports = reports
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(s *Service) {
		s.meterProvider = provider
	}
}

// WithRand sets the random source, e.g. a seeded one for reproducible runs
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter. If outputFile is empty
// spans go to stdout; otherwise to the supplied file. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.initErrors = append(s.initErrors, err)
			return
		}
		s.ownsTracing = true
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. The first
// successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.initErrors = append(s.initErrors, err)
			return
		}
		s.ownsTracing = true
	}
}
