package idgen

import (
	"github.com/google/uuid"
)

// NewFunc generates a run identifier. Override in tests for determinism.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new run identifier.
func New() string { return NewFunc() }
