package operations

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepStateLifecycle(t *testing.T) {
	s := NewStepState(StepIDIngest, "Workbook Ingestion")
	assert.Equal(t, StepStatusPending, s.Status)
	assert.Nil(t, s.StartTime)
	assert.Nil(t, s.EndTime)

	s.Start()
	assert.Equal(t, StepStatusActive, s.Status)
	require.NotNil(t, s.StartTime)
	assert.Nil(t, s.EndTime)

	s.Complete()
	assert.Equal(t, StepStatusCompleted, s.Status)
	require.NotNil(t, s.EndTime)
	assert.False(t, s.EndTime.Before(*s.StartTime))
}

func TestStepStateFail(t *testing.T) {
	s := NewStepState(StepIDPreprocess, "Panel Normalization")
	s.Start()

	failure := errors.New("duplicate date in index")
	s.Fail(failure)

	assert.Equal(t, StepStatusFailed, s.Status)
	assert.Equal(t, failure, s.Err)
	require.NotNil(t, s.EndTime)
}

func TestStepStateSkip(t *testing.T) {
	s := NewStepState(StepIDTransform, "Panel Transforms")
	s.Skip("no transforms configured")

	assert.Equal(t, StepStatusSkipped, s.Status)
	assert.Equal(t, "no transforms configured", s.Message)
	assert.Nil(t, s.StartTime)
	require.NotNil(t, s.EndTime)
}

func TestStepStateDuration(t *testing.T) {
	s := NewStepState(StepIDExport, "Artifact Emission")
	assert.Zero(t, s.Duration())

	start := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(250 * time.Millisecond)
	s.StartTime = &start
	s.EndTime = &end
	assert.Equal(t, 250*time.Millisecond, s.Duration())
}

func TestStepStateRecord(t *testing.T) {
	start := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(1200 * time.Millisecond)

	s := NewStepState(StepIDPartition, "Asset Class Partition")
	s.Status = StepStatusFailed
	s.StartTime = &start
	s.EndTime = &end
	s.Err = errors.New("partition blew up")

	rec := s.Record()
	assert.Equal(t, StepIDPartition, rec.ID)
	assert.Equal(t, "Asset Class Partition", rec.Name)
	assert.Equal(t, string(StepStatusFailed), rec.Status)
	assert.Equal(t, start, rec.StartedAt)
	assert.Equal(t, int64(1200), rec.DurationMS)
	assert.Equal(t, "partition blew up", rec.Error)
}

func TestStepStateRecordNeverStarted(t *testing.T) {
	// Steps that fail validation are recorded without ever starting
	s := NewStepState(StepIDIngest, "Workbook Ingestion")
	s.Fail(errors.New("source workbook does not exist"))

	rec := s.Record()
	assert.Equal(t, string(StepStatusFailed), rec.Status)
	assert.True(t, rec.StartedAt.IsZero())
	assert.Zero(t, rec.DurationMS)
	assert.Equal(t, "source workbook does not exist", rec.Error)
}
