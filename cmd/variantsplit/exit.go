package main

import (
	"errors"

	"variantsplit/internal/naming"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // marker violation or I/O failure while splitting
	exitUsage   = 2 // bad flags, config or output naming
)

// exitError carries the process exit code out of a command.
// reported is set when the command already printed the details.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

// failureError classifies a batch error after its per-input lines were printed.
func failureError(err error) error {
	if errors.Is(err, naming.ErrCollision) {
		return &exitError{code: exitUsage, err: err}
	}
	return &exitError{code: exitFailure, err: err, reported: true}
}
