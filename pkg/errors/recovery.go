package errors

// This file converts panics raised inside user-supplied learners, metrics and
// objective functions into PanicError values so that a failed candidate
// aborts a search through the normal error path.

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// PanicError is an error created from a recovered panic.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace is the goroutine stack at the time of the panic
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("modelselect: panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String includes the stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// MarshalZerologObject adds the panic details to a zerolog event.
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Str("panic", fmt.Sprint(e.PanicValue)).
		Str("type", "PanicError")
}

// NewPanicError creates a PanicError capturing the current stack.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover is deferred with a pointer to the named error result of the
// surrounding function:
//
//	func (o *RandomSearchOptimizer) evaluate(...) (res OptimizerResult, err error) {
//	    defer errors.Recover(&err, "RandomSearchOptimizer.evaluate")
//	    ...
//	}
//
// A panic becomes a PanicError. If the function had already set an error,
// the panic is attached to it as a secondary error.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		panicErr := errors.WithStack(NewPanicError(operation, r))
		if *err != nil {
			*err = errors.WithSecondaryError(*err, panicErr)
			return
		}
		*err = panicErr
	}
}

// SafeExecute runs fn and converts any panic into an error.
//
//	err := errors.SafeExecute("learner.Learn", func() error {
//	    model, err = learner.Learn(X, y)
//	    return err
//	})
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
