package controller

import "errors"

var (
	// ErrNoRun is returned when an operation needs a run and none was started.
	ErrNoRun = errors.New("controller: no run")

	// ErrRunCancelled is returned by Wait when the run was torn down before completion.
	ErrRunCancelled = errors.New("controller: run cancelled")

	// ErrClosed is returned by StartRun after Shutdown.
	ErrClosed = errors.New("controller: closed")
)
