package runner

import (
	"errors"
	"fmt"
	"time"

	"github.com/viant/procsim/runtime/process"
)

// Timing holds the synthetic delay ranges, expressed in time units.
type Timing struct {
	// Setup is spent in New before moving to Ready.
	Setup process.FloatRange `json:"setup" yaml:"setup"`
	// FirstReady precedes the first Running phase.
	FirstReady process.FloatRange `json:"firstReady" yaml:"firstReady"`
	// Ready precedes every later Running phase.
	Ready process.FloatRange `json:"ready" yaml:"ready"`
	// Blocked is the length of each Blocked phase.
	Blocked process.FloatRange `json:"blocked" yaml:"blocked"`
	// Unit is the wall-clock length of one synthetic second.
	Unit time.Duration `json:"-" yaml:"-"`
}

// DefaultTiming returns the stock delay ranges with a one second unit.
func DefaultTiming() Timing {
	return Timing{
		Setup:      process.FloatRange{Min: 0.5, Max: 1.0},
		FirstReady: process.FloatRange{Min: 0.5, Max: 1.0},
		Ready:      process.FloatRange{Min: 0.2, Max: 0.5},
		Blocked:    process.FloatRange{Min: 0.3, Max: 1.0},
		Unit:       time.Second,
	}
}

// Validate returns aggregated error describing invalid ranges or nil.
func (t *Timing) Validate() error {
	var unitErr error
	if t.Unit <= 0 {
		unitErr = fmt.Errorf("timing.unit: %v: %w", t.Unit, process.ErrInvalidConfiguration)
	}
	return errors.Join(
		t.Setup.Validate("timing.setup"),
		t.FirstReady.Validate("timing.firstReady"),
		t.Ready.Validate("timing.ready"),
		t.Blocked.Validate("timing.blocked"),
		unitErr,
	)
}

// Duration converts synthetic seconds into wall-clock time.
func (t *Timing) Duration(units float64) time.Duration {
	return time.Duration(units * float64(t.Unit))
}

// Units converts wall-clock time into synthetic seconds.
func (t *Timing) Units(d time.Duration) float64 {
	if t.Unit <= 0 {
		return 0
	}
	return float64(d) / float64(t.Unit)
}
