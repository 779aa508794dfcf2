package probe

import (
	"errors"
	"fmt"
)

// ExecutionError means an external source could not be queried: a command
// failed to run or timed out, or a sysfs file could not be read.
type ExecutionError struct {
	Op     string
	Source string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Source, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// ParseError means a source answered but its output was not in the expected shape.
type ParseError struct {
	Op   string
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: cannot parse %q: %v", e.Op, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Error kinds used in logs and metric labels.
const (
	KindExecution = "execution"
	KindParse     = "parse"
	KindUnknown   = "unknown"
)

// Kind classifies err as one of the Kind constants.
func Kind(err error) string {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return KindExecution
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return KindParse
	}
	return KindUnknown
}

// Op returns the probe operation that failed, or "" if err is not a probe error.
func Op(err error) string {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Op
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Op
	}
	return ""
}
