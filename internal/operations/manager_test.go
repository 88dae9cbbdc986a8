package operations

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceshift/internal/config"
	apperrors "priceshift/internal/errors"
	"priceshift/internal/infrastructure"
	sharedtest "priceshift/internal/shared/testutil"
)

func newTestTelemetry(t *testing.T) *infrastructure.Telemetry {
	t.Helper()
	dir := t.TempDir()
	tel, err := infrastructure.InitializeTelemetry(context.Background(),
		config.TelemetryConfig{MetricsEnabled: true},
		filepath.Join(dir, "trace.json"), filepath.Join(dir, "run.prom"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })
	return tel
}

func TestManager_ExecuteInOrder(t *testing.T) {
	var order []string
	record := func(id string) func(context.Context, *OperationState) error {
		return func(context.Context, *OperationState) error {
			order = append(order, id)
			return nil
		}
	}

	tel := newTestTelemetry(t)
	m := NewManager(nil, tel, nil)
	for _, id := range []string{"one", "two", "three"} {
		require.NoError(t, m.RegisterStage(newFuncStep(id, record(id))))
	}

	ctx := infrastructure.WithRunID(context.Background(), "run-123")
	state, err := m.Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three"}, order)
	assert.Equal(t, "run-123", state.ID)
	assert.Equal(t, OperationStatusCompleted, state.Status)
	for _, id := range order {
		assert.Equal(t, StepStatusCompleted, state.GetStage(id).Status)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.Metrics.RunSuccess))
}

func TestManager_FailureSkipsRemaining(t *testing.T) {
	logger, handler := sharedtest.NewTestLogger(t)
	cause := apperrors.NewDataConsistencyError(11, 12, []string{"2021 JAN"})

	ran := false
	tel := newTestTelemetry(t)
	m := NewManager(nil, tel, logger)
	require.NoError(t, m.RegisterStage(newFuncStep("first", nil)))
	require.NoError(t, m.RegisterStage(newFuncStep("broken", func(context.Context, *OperationState) error { return cause })))
	require.NoError(t, m.RegisterStage(newFuncStep("after", func(context.Context, *OperationState) error {
		ran = true
		return nil
	})))

	state, err := m.Execute(context.Background())
	require.Error(t, err)

	assert.False(t, ran)
	assert.True(t, apperrors.IsDataConsistency(err))
	assert.Equal(t, apperrors.ExitDataConsistency, apperrors.ExitCode(err))

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "broken", opErr.Step)

	assert.Equal(t, OperationStatusFailed, state.Status)
	assert.Equal(t, StepStatusCompleted, state.GetStage("first").Status)
	assert.Equal(t, StepStatusFailed, state.GetStage("broken").Status)
	after := state.GetStage("after")
	assert.Equal(t, StepStatusSkipped, after.Status)
	assert.Equal(t, "previous step broken failed", after.Message)

	assert.True(t, handler.ContainsMessage("stage_error"))
	assert.True(t, handler.ContainsAttr("error_type", string(apperrors.ErrTypeDataConsistency)))
	assert.Equal(t, 0.0, testutil.ToFloat64(tel.Metrics.RunSuccess))
}

func TestManager_SkipperOptsOut(t *testing.T) {
	skipped := newFuncStep("optional", func(context.Context, *OperationState) error {
		t.Fatal("skipped step must not run")
		return nil
	})
	skipped.skip = "disabled"

	m := NewManager(nil, nil, nil)
	require.NoError(t, m.RegisterStage(skipped))
	require.NoError(t, m.RegisterStage(newFuncStep("last", nil)))

	state, err := m.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StepStatusSkipped, state.GetStage("optional").Status)
	assert.Equal(t, "disabled", state.GetStage("optional").Message)
	assert.Equal(t, StepStatusCompleted, state.GetStage("last").Status)
	assert.NotEmpty(t, state.ID, "a run ID is generated when the context has none")
}
