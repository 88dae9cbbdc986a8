package operations

import (
	"time"

	"priceshift/internal/analysis"
	"priceshift/internal/dataset"
	"priceshift/internal/files"
)

// OperationStatusValue represents the overall operation status
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
)

// OperationState is the state of one run. Steps read what earlier steps
// left behind and add their own results.
type OperationState struct {
	ID       string
	Status   OperationStatusValue
	Started  time.Time
	Finished time.Time
	Steps    map[string]*StepState
	Err      error

	Months       []dataset.Month
	MonthlyFiles []files.MonthlyFile
	Reference    *dataset.Series
	Sheets       []dataset.MonthlySheet
	Table        *dataset.Table
	Normalised   *dataset.Table
	Baselines    analysis.Baselines
	Comparisons  []analysis.Comparison
	Sensitivity  []analysis.SensitivityResult

	// Outputs lists every file the run wrote
	Outputs []string
}

// NewOperationState creates the state for run id
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:      id,
		Status:  OperationStatusPending,
		Started: time.Now(),
		Steps:   make(map[string]*StepState),
	}
}

// Start marks the run as running
func (p *OperationState) Start() {
	p.Status = OperationStatusRunning
	p.Started = time.Now()
}

// Complete marks the run as completed
func (p *OperationState) Complete() {
	p.Finished = time.Now()
	p.Status = OperationStatusCompleted
}

// Fail marks the run as failed with err
func (p *OperationState) Fail(err error) {
	p.Finished = time.Now()
	p.Status = OperationStatusFailed
	p.Err = err
}

// GetStage returns the state of a step, or nil if it is unknown
func (p *OperationState) GetStage(stepID string) *StepState {
	return p.Steps[stepID]
}

// SetStage records the state of a step
func (p *OperationState) SetStage(stepID string, state *StepState) {
	p.Steps[stepID] = state
}

// AddOutput records a written file
func (p *OperationState) AddOutput(path string) {
	p.Outputs = append(p.Outputs, path)
}

// Duration returns the run time so far, or the total once finished
func (p *OperationState) Duration() time.Duration {
	if p.Finished.IsZero() {
		return time.Since(p.Started)
	}
	return p.Finished.Sub(p.Started)
}
