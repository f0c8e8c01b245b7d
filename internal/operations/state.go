package operations

import (
	"sync"
	"time"

	"amqcli/internal/dataprocessing"
	"amqcli/pkg/contracts/domain"
)

// RunPhase is the lifecycle phase of a pipeline run
type RunPhase string

const (
	RunPhasePending   RunPhase = "pending"
	RunPhaseRunning   RunPhase = "running"
	RunPhaseCompleted RunPhase = "completed"
	RunPhaseFailed    RunPhase = "failed"
)

// RunState is the shared state one pipeline run threads through its
// steps. Every field a step produces is typed: steps read and write
// these directly rather than passing values through an untyped bag, so
// a step wiring mistake fails at compile time instead of at run time.
//
// Steps execute sequentially; the mutex guards only the bookkeeping
// collections the runner and manifest writer touch.
type RunState struct {
	mu sync.RWMutex

	// Run identity
	RunID      string
	Mode       domain.RunMode
	SourcePath string
	Sheet      string

	StartTime time.Time
	EndTime   *time.Time
	Err       error

	// Step outputs, in production order
	Raw            *domain.RawPanel
	IngestReport   *dataprocessing.IngestReport
	Panel          *domain.Panel
	Missingness    *domain.MissingnessReport
	DailyReturns   *domain.Panel
	MonthlyReturns *domain.Panel
	Partition      *domain.ClassifiedPartition
	Dictionary     *domain.DataDictionary

	phase          RunPhase
	steps          []*StepState
	artifacts      []string
	repairArtifact string
}

// NewRunState creates a pending run state
func NewRunState(runID string, mode domain.RunMode, sourcePath, sheet string) *RunState {
	return &RunState{
		RunID:      runID,
		Mode:       mode,
		SourcePath: sourcePath,
		Sheet:      sheet,
		StartTime:  time.Now(),
		phase:      RunPhasePending,
	}
}

// Start marks the run as running
func (s *RunState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = RunPhaseRunning
	s.StartTime = time.Now()
}

// Complete marks the run as completed
func (s *RunState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.phase = RunPhaseCompleted
}

// Fail marks the run as failed
func (s *RunState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.phase = RunPhaseFailed
	s.Err = err
}

// Phase returns the current lifecycle phase
func (s *RunState) Phase() RunPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Duration returns the duration of the run
func (s *RunState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// AddStep appends a step state in execution order
func (s *RunState) AddStep(step *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}

// Steps returns the step states in execution order
func (s *RunState) Steps() []*StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*StepState(nil), s.steps...)
}

// StepRecords returns the manifest stage records in execution order
func (s *RunState) StepRecords() []domain.StageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.StageRecord, len(s.steps))
	for i, step := range s.steps {
		records[i] = step.Record()
	}
	return records
}

// AddArtifact records a written artifact path
func (s *RunState) AddArtifact(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, path)
}

// Artifacts returns the artifact paths in write order
func (s *RunState) Artifacts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.artifacts...)
}

// SetRepairArtifact records the repaired workbook this run reads from
func (s *RunState) SetRepairArtifact(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repairArtifact = path
}

// Diagnostics assembles the run's non-fatal findings for the manifest:
// header synthesis decisions, classification gaps, residual missing
// cells, and the repair artifact when this run is the repaired retry.
func (s *RunState) Diagnostics() domain.RunDiagnostics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := domain.RunDiagnostics{RepairArtifact: s.repairArtifact}
	if s.IngestReport != nil {
		d.HeadersSynthesized = s.IngestReport.HeadersSynthesized
		d.HeaderAdjustment = s.IngestReport.HeaderAdjustment
	}
	if s.Partition != nil && len(s.Partition.Unclassified) > 0 {
		d.UnclassifiedColumns = append([]string(nil), s.Partition.Unclassified...)
	}
	if s.Missingness != nil {
		d.ResidualMissingCells = s.Missingness.MissingCells
	}
	return d
}
