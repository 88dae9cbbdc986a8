package operations

import (
	"context"
	"time"
)

// Step is one unit of work in the analysis pipeline
type Step interface {
	ID() string
	Name() string

	// Execute runs the step against the shared run state
	Execute(ctx context.Context, state *OperationState) error
}

// Skipper is implemented by steps that may decide not to run. A non-empty
// reason skips the step.
type Skipper interface {
	SkipReason(state *OperationState) string
}

// StepStatus is the outcome of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState records what happened to one step during a run. Steps run one
// at a time, so it is not safe for concurrent use.
type StepState struct {
	ID       string
	Name     string
	Status   StepStatus
	Message  string
	Err      error
	Started  time.Time
	Finished time.Time
}

// NewStepState returns a pending step state
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// Start marks the step active
func (s *StepState) Start() {
	s.Started = time.Now()
	s.Status = StepStatusActive
}

// Complete marks the step completed
func (s *StepState) Complete() {
	s.finish(StepStatusCompleted)
}

// Fail marks the step failed with err
func (s *StepState) Fail(err error) {
	s.Err = err
	s.finish(StepStatusFailed)
}

// Skip marks the step skipped. A skipped step never started, so its
// duration stays zero.
func (s *StepState) Skip(reason string) {
	s.Message = reason
	s.finish(StepStatusSkipped)
}

func (s *StepState) finish(status StepStatus) {
	s.Finished = time.Now()
	s.Status = status
}

// Duration is the time between Start and the step finishing, or zero if
// the step never started
func (s *StepState) Duration() time.Duration {
	switch {
	case s.Started.IsZero():
		return 0
	case s.Finished.IsZero():
		return time.Since(s.Started)
	default:
		return s.Finished.Sub(s.Started)
	}
}

// BaseStage carries the ID and name of a step
type BaseStage struct {
	id   string
	name string
}

// NewBaseStage creates a base step
func NewBaseStage(id, name string) BaseStage {
	return BaseStage{id: id, name: name}
}

// ID returns the step ID
func (b BaseStage) ID() string { return b.id }

// Name returns the step name
func (b BaseStage) Name() string { return b.name }
