package domain

import (
	"time"
)

// RunMode distinguishes the first pipeline attempt from the retry after
// a structural repair of the source workbook.
type RunMode string

const (
	RunModePrimary  RunMode = "primary"
	RunModeRepaired RunMode = "repaired"
)

// RunStatus is the terminal status of a pipeline run
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunManifest is the provenance record written next to the pipeline's
// artifacts. It is emitted for failed runs too, with the failing stage
// recorded.
type RunManifest struct {
	RunID       string         `json:"run_id"`
	Mode        RunMode        `json:"mode"`
	Status      RunStatus      `json:"status"`
	SourceFile  string         `json:"source_file"`
	Sheet       string         `json:"sheet,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	Stages      []StageRecord  `json:"stages"`
	Artifacts   []string       `json:"artifacts,omitempty"`
	Diagnostics RunDiagnostics `json:"diagnostics"`
	Error       string         `json:"error,omitempty"`
}

// StageRecord captures the outcome of one pipeline stage
type StageRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// RunDiagnostics carries the non-fatal findings surfaced during a run:
// header synthesis decisions, classification gaps, residual missingness.
type RunDiagnostics struct {
	HeadersSynthesized   bool     `json:"headers_synthesized"`
	HeaderAdjustment     string   `json:"header_adjustment,omitempty"`
	UnclassifiedColumns  []string `json:"unclassified_columns,omitempty"`
	ResidualMissingCells int      `json:"residual_missing_cells"`
	RepairArtifact       string   `json:"repair_artifact,omitempty"`
}
