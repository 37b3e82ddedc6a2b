// Package errs defines the sentinel error taxonomy shared by every layer of
// the array engine. Call sites wrap a sentinel with context via Wrap so
// callers can still match on the sentinel with errors.Is.
package errs

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrOutOfBounds       = errors.New("index out of bounds")
	ErrInvalidReshape    = errors.New("invalid reshape")
	ErrInvalidDtype      = errors.New("invalid dtype")
	ErrInvalidDevice     = errors.New("invalid device")
	ErrOutOfMemory       = errors.New("out of memory")
	ErrInvalidMapOperand = errors.New("invalid map operand")
	ErrKernelCompileError = errors.New("kernel compile error")
	ErrLaunchError       = errors.New("kernel launch error")
	ErrUninitialized     = errors.New("operation on uninitialized array")
	ErrDeviceUnavailable = errors.New("device unavailable")
	ErrTypeMismatch      = errors.New("type mismatch")
)

// Wrap attaches formatted context to a sentinel error while keeping it
// matchable with errors.Is(err, sentinel).
func Wrap(sentinel error, format string, args ...any) error {
	return errors.Wrapf(sentinel, format, args...)
}

// Combine aggregates independent validation failures (e.g. every input to
// Concatenate/Stack) into a single error that still unwraps to each cause.
func Combine(errs ...error) error {
	return multierr.Combine(errs...)
}
