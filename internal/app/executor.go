package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/marketing-site/internal/platform/logging"
)

// Write use cases run as Validate → Perform → Verify → Archive → Respond.
// Nothing is persisted until the performed result has been verified, so a
// failure at any step leaves stored state untouched.

// ExecutionStep names a step of an Operation.
type ExecutionStep string

// Operation steps, in execution order.
const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an operation failed at. It unwraps to
// the cause, so domain error checks see through it.
type ExecutionError struct {
	Step  ExecutionStep
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Operation holds the step functions of one use case. Nil steps are
// skipped; a nil Verify passes the performed value through unchanged.
type Operation[I, P, O any] struct {
	Name     string
	Validate func(ctx context.Context, in I) error
	Perform  func(ctx context.Context, in I) (P, error)
	Verify   func(ctx context.Context, in I, performed P) (P, error)
	Archive  func(ctx context.Context, in I, verified P) error
	Respond  func(ctx context.Context, in I, verified P) (O, error)
}

// Executor runs operations with per-step logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates a new executor with the given logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Execute runs op over in. The context logger wins over the executor's.
func Execute[I, P, O any](ctx context.Context, exec *Executor, op Operation[I, P, O], in I) (O, error) {
	var zero O

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	fail := func(step ExecutionStep, err error) error {
		level := slog.LevelError
		if step == StepValidate {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "operation failed", slog.String("step", string(step)), slog.Any("error", err))

		return &ExecutionError{Step: step, Cause: err}
	}

	if op.Validate != nil {
		if err := op.Validate(ctx, in); err != nil {
			return zero, fail(StepValidate, err)
		}
	}

	var value P
	if op.Perform != nil {
		performed, err := op.Perform(ctx, in)
		if err != nil {
			return zero, fail(StepPerform, err)
		}
		value = performed
	}

	if op.Verify != nil {
		verified, err := op.Verify(ctx, in, value)
		if err != nil {
			return zero, fail(StepVerify, err)
		}
		value = verified
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, in, value); err != nil {
			return zero, fail(StepArchive, err)
		}
	}

	var out O
	if op.Respond != nil {
		result, err := op.Respond(ctx, in, value)
		if err != nil {
			return zero, fail(StepRespond, err)
		}
		out = result
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}

// ExecutionStepOf extracts the failed step from err.
func ExecutionStepOf(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
