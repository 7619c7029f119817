package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAnalyzer struct {
	done chan *AnalysisJob
	ctxs chan context.Context
}

func (r *recordingAnalyzer) Analyze(ctx context.Context, job *AnalysisJob) error {
	r.ctxs <- ctx
	r.done <- job
	return nil
}

func TestWorker_ProcessesJobsWithTimeout(t *testing.T) {
	analyzer := &recordingAnalyzer{done: make(chan *AnalysisJob, 1), ctxs: make(chan context.Context, 1)}
	w := NewWorker(analyzer, nil, 2, 10, time.Minute)
	w.Start(context.Background())
	defer w.Stop()

	job := NewAnalysisJob("alice", resumeFile(10), "Acme", "Engineer", "Build things")
	require.NoError(t, w.EnqueueJob(job))

	select {
	case ctx := <-analyzer.ctxs:
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
	assert.Equal(t, job.ID, (<-analyzer.done).ID)
}

func TestWorker_RejectsWhenQueueFull(t *testing.T) {
	w := NewWorker(&recordingAnalyzer{}, nil, 1, 1, 0)

	require.NoError(t, w.EnqueueJob(NewAnalysisJob("alice", resumeFile(10), "A", "B", "C")))
	assert.ErrorIs(t, w.EnqueueJob(NewAnalysisJob("alice", resumeFile(10), "A", "B", "C")), ErrQueueFull)
}

func TestWorker_RejectsAfterStop(t *testing.T) {
	w := NewWorker(&recordingAnalyzer{}, nil, 1, 1, 0)
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	assert.ErrorIs(t, w.EnqueueJob(NewAnalysisJob("alice", resumeFile(10), "A", "B", "C")), ErrWorkerStopped)
}

func TestWorker_StopFailsQueuedJobs(t *testing.T) {
	tracker := NewStatusTracker(time.Hour)
	w := NewWorker(&recordingAnalyzer{}, tracker, 1, 2, 0)

	job := NewAnalysisJob("alice", resumeFile(10), "Acme", "Engineer", "Build things")
	tracker.Start(job.ID, job.Owner)
	require.NoError(t, w.EnqueueJob(job))

	// never started, so the job is still queued when Stop runs
	w.Stop()

	status, ok := tracker.Get(job.ID)
	require.True(t, ok)
	assert.True(t, status.Failed())
	assert.Equal(t, "Failed to upload resume", status.StatusText)
}
