package process

import "errors"

var (
	// ErrInvalidConfiguration is returned when a run is requested with a
	// non-positive process count or malformed attribute ranges.
	ErrInvalidConfiguration = errors.New("process: invalid configuration")

	// ErrDuplicatePriority signals a broken priority permutation.
	ErrDuplicatePriority = errors.New("process: duplicate priority")

	// ErrInvalidTransition is returned for moves the state machine forbids.
	ErrInvalidTransition = errors.New("process: invalid state transition")

	// ErrTerminated is returned when mutating a terminated record.
	ErrTerminated = errors.New("process: terminated")

	// ErrCycleOverflow is returned when more cycles complete than were assigned.
	ErrCycleOverflow = errors.New("process: cycle count exceeded")

	// ErrInvalidElapsed is returned for negative or non-finite cycle durations.
	ErrInvalidElapsed = errors.New("process: invalid elapsed time")
)
