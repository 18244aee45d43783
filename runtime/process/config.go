package process

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Draw returns a uniformly distributed integer in [Min, Max].
func (r IntRange) Draw(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// Validate checks the interval is well-formed and positive.
func (r IntRange) Validate(name string) error {
	if r.Min <= 0 || r.Max < r.Min {
		return fmt.Errorf("%s: invalid range [%d, %d]: %w", name, r.Min, r.Max, ErrInvalidConfiguration)
	}
	return nil
}

// FloatRange is a closed real interval.
type FloatRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Draw returns a uniformly distributed value in [Min, Max].
func (r FloatRange) Draw(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Validate checks the interval is well-formed and positive.
func (r FloatRange) Validate(name string) error {
	if r.Min <= 0 || r.Max < r.Min {
		return fmt.Errorf("%s: invalid range [%v, %v]: %w", name, r.Min, r.Max, ErrInvalidConfiguration)
	}
	return nil
}

// Config controls the randomised attributes of generated records.
type Config struct {
	Cycles        IntRange   `json:"cycles" yaml:"cycles"`
	EstimatedTime FloatRange `json:"estimatedTime" yaml:"estimatedTime"`
	CycleHint     IntRange   `json:"cycleHint" yaml:"cycleHint"`
	Core          IntRange   `json:"core" yaml:"core"`
	Thread        IntRange   `json:"thread" yaml:"thread"`
	Memory        IntRange   `json:"memory" yaml:"memory"`
}

// DefaultConfig returns the stock attribute ranges.
func DefaultConfig() Config {
	return Config{
		Cycles:        IntRange{Min: 20, Max: 30},
		EstimatedTime: FloatRange{Min: 1, Max: 5},
		CycleHint:     IntRange{Min: 1, Max: 10},
		Core:          IntRange{Min: 1, Max: 4},
		Thread:        IntRange{Min: 1, Max: 8},
		Memory:        IntRange{Min: 100, Max: 1000},
	}
}

// Validate returns aggregated error describing invalid ranges or nil.
func (c *Config) Validate() error {
	return errors.Join(
		c.Cycles.Validate("cycles"),
		c.EstimatedTime.Validate("estimatedTime"),
		c.CycleHint.Validate("cycleHint"),
		c.Core.Validate("core"),
		c.Thread.Validate("thread"),
		c.Memory.Validate("memory"),
	)
}
