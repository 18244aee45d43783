package procsim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/viant/procsim/metrics"
	"github.com/viant/procsim/runtime/controller"
	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/service/dao"
	"github.com/viant/procsim/service/dao/report/fs"
	"github.com/viant/procsim/service/dao/report/memory"
	mmemory "github.com/viant/procsim/service/messaging/memory"
	"github.com/viant/procsim/tracing"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Name and Version identify the simulator in traces.
const (
	Name    = "procsim"
	Version = "0.1.0"
)

// Service wires the controller with its configuration, storage and instrumentation.
type Service struct {
	config        *Config
	logger        *zap.Logger
	meterProvider metric.MeterProvider
	reports       dao.Service[string, process.RunReport]
	rng           *rand.Rand
	controller    *controller.Controller
	initErrors    []error
	ownsTracing   bool
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	for _, err := range s.initErrors {
		s.logger.Warn("failed to initialise tracing", zap.Error(err))
	}
	m, err := metrics.New(s.meterProvider)
	if err != nil {
		s.logger.Warn("metrics disabled", zap.Error(err))
	}
	queueConfig := mmemory.DefaultConfig()
	if s.config.Events.Buffer > 0 {
		queueConfig.QueueBuffer = s.config.Events.Buffer
	}
	controllerOptions := []controller.Option{
		controller.WithProcessConfig(s.config.Config),
		controller.WithTiming(s.config.RunnerTiming()),
		controller.WithQueueConfig(queueConfig),
		controller.WithLogger(s.logger),
		controller.WithMetrics(m),
		controller.WithReportDAO(s.reports),
	}
	if s.rng != nil {
		controllerOptions = append(controllerOptions, controller.WithRand(s.rng))
	}
	s.controller = controller.New(controllerOptions...)
}

func (s *Service) ensureBaseSetup() {
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(Name, Version, s.config.Tracing.Output); err != nil {
			s.initErrors = append(s.initErrors, err)
		} else {
			s.ownsTracing = true
		}
	}
	if s.reports != nil {
		return
	}
	if URL := s.config.Report.URL; URL != "" {
		reports, err := fs.New(URL, fs.WithLogger(s.logger))
		if err == nil {
			s.reports = reports
			return
		}
		s.logger.Warn("falling back to in-memory reports", zap.String("url", URL), zap.Error(err))
	}
	s.reports = memory.New()
}

// Controller returns the simulation controller
func (s *Service) Controller() *controller.Controller {
	return s.controller
}

// Config returns the active configuration
func (s *Service) Config() *Config {
	return s.config
}

// Reports returns the run report store
func (s *Service) Reports() dao.Service[string, process.RunReport] {
	return s.reports
}

// Run starts n processes, or the configured count when n <= 0, and waits for the run to end.
func (s *Service) Run(ctx context.Context, n int) (*process.RunReport, error) {
	if n <= 0 {
		n = s.config.Processes
	}
	if err := s.controller.StartRun(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	return s.controller.Wait(ctx)
}

// Shutdown tears down the active run, stops event delivery and flushes
// tracing installed by this service.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.controller.Shutdown(ctx)
	if s.ownsTracing {
		s.ownsTracing = false
		err = errors.Join(err, tracing.Shutdown(ctx))
	}
	return err
}

func New(options ...Option) *Service {
	ret := &Service{config: DefaultConfig()}
	ret.init(options)
	return ret
}
