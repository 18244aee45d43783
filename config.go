package procsim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/runtime/runner"
	"github.com/viant/procsim/service/meta"
	"go.uber.org/zap/zapcore"
)

// Config is a serialisable representation of the simulator configuration,
// usually loaded from YAML or JSON with LoadConfig.
type Config struct {
	// Processes is the number of processes created by a run.
	Processes int `json:"processes" yaml:"processes"`
	// Config holds the cycle, estimated time and informational attribute ranges.
	process.Config `yaml:",inline"`
	// TimeUnit is the wall-clock length of one synthetic second.
	TimeUnit time.Duration `json:"timeUnit" yaml:"timeUnit"`
	Timing   runner.Timing `json:"timing" yaml:"timing"`
	Events   EventsConfig  `json:"events" yaml:"events"`
	Report   ReportConfig  `json:"report" yaml:"report"`
	Log      LogConfig     `json:"log" yaml:"log"`
	Tracing  TracingConfig `json:"tracing" yaml:"tracing"`
}

type EventsConfig struct {
	Buffer int `json:"buffer" yaml:"buffer"`
}

// ReportConfig selects run report storage; an empty URL keeps reports in memory.
type ReportConfig struct {
	URL string `json:"url" yaml:"url"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// TracingConfig enables the stdout span exporter; Output redirects it to a file.
type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Output  string `json:"output" yaml:"output"`
}

// DefaultConfig returns a Config populated with the stock defaults: three
// processes, 20 to 30 cycles each, one second time unit.
func DefaultConfig() *Config {
	timing := runner.DefaultTiming()
	return &Config{
		Processes: 3,
		Config:    process.DefaultConfig(),
		TimeUnit:  timing.Unit,
		Timing:    timing,
		Events:    EventsConfig{Buffer: 1024},
		Log:       LogConfig{Level: "info"},
	}
}

// RunnerTiming returns the timing ranges bound to the configured time unit.
func (c *Config) RunnerTiming() runner.Timing {
	ret := c.Timing
	ret.Unit = c.TimeUnit
	return ret
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Processes <= 0 {
		errs = append(errs, fmt.Errorf("processes: %d: %w", c.Processes, process.ErrInvalidConfiguration))
	}
	errs = append(errs, c.Config.Validate())
	timing := c.RunnerTiming()
	errs = append(errs, timing.Validate())
	if c.Events.Buffer <= 0 {
		errs = append(errs, fmt.Errorf("events.buffer: %d: %w", c.Events.Buffer, process.ErrInvalidConfiguration))
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LoadConfig decodes the document at URL over DefaultConfig and validates it.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "").Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
