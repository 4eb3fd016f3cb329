package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/marketing-site/internal/domain"
)

func TestExecute_RunsStepsInOrder(t *testing.T) {
	var steps []ExecutionStep

	op := Operation[int, int, string]{
		Name: "double",
		Validate: func(context.Context, int) error {
			steps = append(steps, StepValidate)
			return nil
		},
		Perform: func(_ context.Context, in int) (int, error) {
			steps = append(steps, StepPerform)
			return in * 2, nil
		},
		Verify: func(_ context.Context, _ int, performed int) (int, error) {
			steps = append(steps, StepVerify)
			return performed + 1, nil
		},
		Archive: func(context.Context, int, int) error {
			steps = append(steps, StepArchive)
			return nil
		},
		Respond: func(_ context.Context, _ int, verified int) (string, error) {
			steps = append(steps, StepRespond)
			if verified == 7 {
				return "seven", nil
			}
			return "other", nil
		},
	}

	out, err := Execute(context.Background(), NewExecutor(discardLogger()), op, 3)
	require.NoError(t, err)
	assert.Equal(t, "seven", out)
	assert.Equal(t, []ExecutionStep{StepValidate, StepPerform, StepVerify, StepArchive, StepRespond}, steps)
}

func TestExecute_StopsAtFailedStep(t *testing.T) {
	archived := false
	cause := domain.NewUnavailableError("lead store", "locked")

	op := Operation[string, string, string]{
		Name:    "fails",
		Perform: func(_ context.Context, in string) (string, error) { return in, nil },
		Verify:  func(context.Context, string, string) (string, error) { return "", cause },
		Archive: func(context.Context, string, string) error {
			archived = true
			return nil
		},
	}

	_, err := Execute(context.Background(), NewExecutor(nil), op, "x")
	require.Error(t, err)
	assert.False(t, archived)
	assert.True(t, domain.IsUnavailable(err))

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, StepVerify, execErr.Step)
	assert.Equal(t, `verify: lead store unavailable: locked`, err.Error())
}

func TestExecute_NilStepsPassThrough(t *testing.T) {
	out, err := Execute(context.Background(), NewExecutor(nil), Operation[int, int, int]{Name: "noop"}, 1)
	require.NoError(t, err)
	assert.Zero(t, out)

	_, ok := ExecutionStepOf(errors.New("plain"))
	assert.False(t, ok)
}
