package operations

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"priceshift/internal/infrastructure"
)

// Manager runs the registered steps one after another. After a failed
// step the remaining steps are skipped.
type Manager struct {
	registry  *Registry
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// NewManager creates a manager. telemetry may be nil, in which case no
// spans or metrics are recorded.
func NewManager(registry *Registry, telemetry *infrastructure.Telemetry, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry:  registry,
		telemetry: telemetry,
		logger:    logger,
	}
}

// RegisterStage registers a Step with the pipeline
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs the pipeline. The run ID is taken from ctx when present.
func (m *Manager) Execute(ctx context.Context) (*OperationState, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	state := NewOperationState(infrastructure.GetRunID(ctx))

	steps := m.registry.List()
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.startSpan(ctx, "run", attribute.Int("step.count", len(steps)))
	defer span.End()

	state.Start()
	m.logOperationStart(ctx, state.ID, len(steps))

	var runErr error
	var failedStep string
	for i, step := range steps {
		stepState := state.GetStage(step.ID())

		if runErr != nil {
			stepState.Skip(fmt.Sprintf("previous step %s failed", failedStep))
			m.recordStep(ctx, step.ID(), stepState)
			continue
		}

		if s, ok := step.(Skipper); ok {
			if reason := s.SkipReason(state); reason != "" {
				stepState.Skip(reason)
				m.logStageSkipped(ctx, state.ID, step.ID(), reason)
				m.recordStep(ctx, step.ID(), stepState)
				continue
			}
		}

		m.logStageStart(ctx, state.ID, step.ID(), i+1, len(steps))
		if err := m.executeStage(ctx, state, step); err != nil {
			runErr = err
			failedStep = step.ID()
			m.logStageError(ctx, state.ID, step.ID(), err)
			continue
		}
		m.logStageComplete(ctx, state.ID, step.ID(), stepState.Duration())
	}

	if runErr != nil {
		state.Fail(runErr)
		infrastructure.RecordError(ctx, runErr)
	} else {
		state.Complete()
	}
	m.recordRun(state)
	m.logOperationComplete(ctx, state)

	return state, runErr
}

// executeStage runs one step inside its own span
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())

	ctx, span := m.startSpan(ctx, step.ID(), attribute.String("step.name", step.Name()))
	defer span.End()

	stepState.Start()
	if err := step.Execute(ctx, state); err != nil {
		stepState.Fail(err)
		infrastructure.RecordError(ctx, err)
		m.recordStep(ctx, step.ID(), stepState)
		return NewExecutionError(step.ID(), err)
	}

	stepState.Complete()
	m.recordStep(ctx, step.ID(), stepState)
	return nil
}

func (m *Manager) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if m.telemetry == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return m.telemetry.StartSpan(ctx, name, attrs...)
}

func (m *Manager) metrics() *infrastructure.RunMetrics {
	if m.telemetry == nil {
		return nil
	}
	return m.telemetry.Metrics
}

func (m *Manager) recordStep(ctx context.Context, stepID string, s *StepState) {
	if rm := m.metrics(); rm != nil {
		rm.RecordStep(ctx, stepID, string(s.Status), s.Duration())
	}
}

func (m *Manager) recordRun(state *OperationState) {
	rm := m.metrics()
	if rm == nil {
		return
	}
	rm.RunDuration.Set(state.Duration().Seconds())
	if state.Status == OperationStatusCompleted {
		rm.RunSuccess.Set(1)
	} else {
		rm.RunSuccess.Set(0)
	}
}
