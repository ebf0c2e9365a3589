package main

import (
	"context"
	"errors"
	"fmt"
)

const (
	exitFailure = 1 // values had no ordering
	exitUsage   = 2 // bad flags, config or input

	exitInterrupted = 130
)

// exitError carries the process exit code for an error returned by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(format string, args ...any) error {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, args...)} //nolint:err113
}

func failure(err error) error {
	return &exitError{code: exitFailure, err: err}
}

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}

	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}

	return exitUsage
}
