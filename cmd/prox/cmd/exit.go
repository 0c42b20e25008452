package cmd

import (
	"errors"
	"fmt"
)

// Exit codes follow grep: 0 found, 1 not found, 2 error.
const (
	ExitFound    = 0
	ExitNotFound = 1
	ExitError    = 2
)

// exitError is returned by commands to signal a specific exit code.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	switch e.code {
	case ExitFound:
		return ""
	case ExitNotFound:
		return "no match"
	default:
		return fmt.Sprintf("exit %d", e.code)
	}
}

func (e exitError) Unwrap() error { return e.err }

func fail(err error) error { return exitError{code: ExitError, err: err} }

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitFound
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}
