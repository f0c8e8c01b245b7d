package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"amqcli/internal/config"
	"amqcli/internal/dataprocessing"
	"amqcli/internal/exporter"
	"amqcli/internal/infrastructure"
	"amqcli/internal/taxonomy"

	"amqcli/pkg/contracts/domain"
)

// RunRequest carries everything one pipeline invocation needs
type RunRequest struct {
	// SourcePath is the workbook to process
	SourcePath string

	// Sheet selects the worksheet; empty means the first sheet
	Sheet string

	// Transforms are applied between normalization and partitioning.
	// Nil leaves the transform hook unused.
	Transforms []dataprocessing.Transform
}

// RunResult is the outcome of a pipeline invocation. The manifest and
// state describe the final attempt: the repaired one if a repair
// happened, otherwise the primary.
type RunResult struct {
	Manifest *domain.RunManifest
	State    *RunState
}

// Runner executes the pipeline against a workbook: a primary attempt,
// and on a repairable failure exactly one repaired retry against a
// rebuilt copy of the workbook. The run manifest is written for every
// outcome, success or failure.
type Runner struct {
	paths    *config.Paths
	tax      *taxonomy.Taxonomy
	repairer *Repairer
	logger   *slog.Logger
}

// NewRunner creates a pipeline runner. A nil taxonomy falls back to the
// built-in default, a nil logger to slog.Default().
func NewRunner(paths *config.Paths, tax *taxonomy.Taxonomy, logger *slog.Logger) *Runner {
	if tax == nil {
		tax = taxonomy.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		paths:    paths,
		tax:      tax,
		repairer: NewRepairer(tax, logger),
		logger:   logger,
	}
}

// Run executes the pipeline for the request. On a repairable primary
// failure it rebuilds the workbook and re-runs once; the repaired
// attempt's failure is terminal. Sources that are themselves repaired
// artifacts are never repaired again.
func (r *Runner) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if req.SourcePath == "" {
		return nil, NewValidationError("", "no source workbook configured")
	}
	if err := r.paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("cannot prepare output directories: %w", err)
	}

	// One invocation gets one run ID, shared by the primary attempt
	// and any repaired retry.
	runID := infrastructure.GenerateRunID()
	state, err := r.runOnce(ctx, runID, req.SourcePath, req.Sheet, domain.RunModePrimary, "", req.Transforms)

	if err != nil && Repairable(err) && !IsRepairedWorkbook(req.SourcePath) {
		repairedPath := r.paths.GetRepairedWorkbookPath(req.SourcePath)
		r.logger.WarnContext(ctx, "primary run failed structurally, rebuilding workbook",
			slog.String("source", req.SourcePath),
			slog.String("repaired", repairedPath),
			slog.String("error", err.Error()))

		if rerr := r.repairer.Repair(req.SourcePath, req.Sheet, repairedPath); rerr != nil {
			// Nothing left to retry against. The manifest keeps the
			// primary attempt's failure.
			err = errors.Join(err, rerr)
		} else {
			state, err = r.runOnce(ctx, runID, repairedPath, req.Sheet, domain.RunModeRepaired, repairedPath, req.Transforms)
		}
	}

	manifest, werr := r.writeManifest(state)
	result := &RunResult{Manifest: manifest, State: state}
	if err != nil {
		return result, err
	}
	if werr != nil {
		return result, werr
	}

	r.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", state.RunID),
		slog.String("mode", string(state.Mode)),
		slog.Int("artifacts", len(manifest.Artifacts)),
		slog.Duration("duration", state.Duration()))
	return result, nil
}

// runOnce executes every step in order against a fresh run state. The
// first failure stops the run; the failed step's error is recorded on
// both the step state and the run state.
func (r *Runner) runOnce(ctx context.Context, runID, sourcePath, sheet string, mode domain.RunMode, repairArtifact string, transforms []dataprocessing.Transform) (*RunState, error) {
	state := NewRunState(runID, mode, sourcePath, sheet)
	if repairArtifact != "" {
		state.SetRepairArtifact(repairArtifact)
		state.AddArtifact(repairArtifact)
	}

	state.Start()
	r.logger.InfoContext(ctx, "pipeline run starting",
		slog.String("run_id", state.RunID),
		slog.String("mode", string(mode)),
		slog.String("source", sourcePath))

	for _, step := range r.buildSteps(transforms) {
		select {
		case <-ctx.Done():
			state.Fail(ctx.Err())
			return state, ctx.Err()
		default:
		}

		stepState := NewStepState(step.ID(), step.Name())
		state.AddStep(stepState)

		if skippable, ok := step.(Skippable); ok {
			if reason := skippable.SkipReason(state); reason != "" {
				stepState.Skip(reason)
				r.logger.InfoContext(ctx, "step skipped",
					slog.String("step", step.ID()),
					slog.String("reason", reason))
				continue
			}
		}

		if err := step.Validate(state); err != nil {
			stepState.Fail(err)
			state.Fail(err)
			return state, err
		}

		stepState.Start()
		if err := step.Execute(ctx, state); err != nil {
			stepState.Fail(err)
			state.Fail(err)
			r.logger.ErrorContext(ctx, "step failed",
				slog.String("run_id", state.RunID),
				slog.String("step", step.ID()),
				slog.String("kind", string(KindOf(err))),
				slog.String("error", err.Error()))
			return state, err
		}
		stepState.Complete()

		r.logger.InfoContext(ctx, "step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", stepState.Duration()))
	}

	state.Complete()
	return state, nil
}

// buildSteps wires the full step sequence. Each run gets fresh step
// instances so state never leaks between the primary and repaired
// attempts.
func (r *Runner) buildSteps(transforms []dataprocessing.Transform) []Step {
	classifier := taxonomy.NewClassifier(r.tax, r.logger)
	return []Step{
		NewIngestStep(dataprocessing.NewReader(r.tax, r.logger), r.logger),
		NewPreprocessStep(dataprocessing.NewPreprocessor(r.logger), r.logger),
		NewTransformStep(transforms, r.logger),
		NewReturnsStep(r.logger),
		NewPartitionStep(dataprocessing.NewPartitioner(classifier, r.logger), r.logger),
		NewDictionaryStep(dataprocessing.NewDictionaryBuilder(classifier, r.logger), r.logger),
		NewExportStep(r.paths, r.tax, r.logger),
	}
}

// buildManifest converts the final run state into its manifest
func (r *Runner) buildManifest(state *RunState) *domain.RunManifest {
	m := &domain.RunManifest{
		RunID:       state.RunID,
		Mode:        state.Mode,
		SourceFile:  state.SourcePath,
		Sheet:       state.Sheet,
		StartedAt:   state.StartTime,
		FinishedAt:  time.Now(),
		Stages:      state.StepRecords(),
		Artifacts:   state.Artifacts(),
		Diagnostics: state.Diagnostics(),
	}
	if state.EndTime != nil {
		m.FinishedAt = *state.EndTime
	}
	if state.Phase() == RunPhaseCompleted {
		m.Status = domain.RunStatusCompleted
	} else {
		m.Status = domain.RunStatusFailed
	}
	if state.Err != nil {
		m.Error = state.Err.Error()
	}
	return m
}

// writeManifest persists the run manifest next to the other artifacts.
// Failed runs get one too, with the failing step recorded.
func (r *Runner) writeManifest(state *RunState) (*domain.RunManifest, error) {
	manifest := r.buildManifest(state)
	if err := exporter.WriteManifest(r.paths.RunManifestJSON, manifest); err != nil {
		r.logger.Error("run manifest write failed",
			slog.String("path", r.paths.RunManifestJSON),
			slog.String("error", err.Error()))
		return manifest, fmt.Errorf("cannot write run manifest: %w", err)
	}
	return manifest, nil
}
