package operations

import (
	"context"
	"sync"
	"time"

	"amqcli/pkg/contracts/domain"
)

// Step represents a single unit of pipeline work. Steps run strictly in
// order; each reads its inputs from the shared run state and writes its
// outputs back before the next step starts.
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Validate checks that the step's inputs are present on the state
	Validate(state *RunState) error

	// Execute runs the step against the shared run state
	Execute(ctx context.Context, state *RunState) error
}

// Skippable lets a step opt out of a run before execution. A non-empty
// reason makes the runner record the step as skipped instead of
// calling Execute.
type Skippable interface {
	SkipReason(state *RunState) string
}

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState tracks the runtime state of one step within a run
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Message   string
	Err       error
}

// NewStepState creates a pending step state
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step as completed and sets the end time
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Err = err
}

// Skip marks the step as skipped with the given reason
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// Duration returns the duration of the step execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// Record converts the step state into the manifest's stage record form
func (s *StepState) Record() domain.StageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := domain.StageRecord{
		ID:     s.ID,
		Name:   s.Name,
		Status: string(s.Status),
	}
	if s.StartTime != nil {
		rec.StartedAt = *s.StartTime
		if s.EndTime != nil {
			rec.DurationMS = s.EndTime.Sub(*s.StartTime).Milliseconds()
		}
	}
	if s.Err != nil {
		rec.Error = s.Err.Error()
	}
	return rec
}

// baseStep carries the identity shared by all step implementations
type baseStep struct {
	id   string
	name string
}

// ID returns the step ID
func (b baseStep) ID() string {
	return b.id
}

// Name returns the step name
func (b baseStep) Name() string {
	return b.name
}
