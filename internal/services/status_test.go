package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumewise/resume-analyzer/internal/models"
)

func TestStatusTracker_Lifecycle(t *testing.T) {
	tracker := NewStatusTracker(time.Hour)
	tracker.Start("a1", "alice")

	status, ok := tracker.Get("a1")
	require.True(t, ok)
	assert.Equal(t, models.StateIdle, status.State)
	assert.Equal(t, "alice", status.Owner)

	tracker.Update("a1", models.StateUploading, "Analyzing your resume...")
	tracker.Complete("a1", "Feedback received", "/resume/a1")

	status, _ = tracker.Get("a1")
	assert.True(t, status.Done())
	assert.Equal(t, "/resume/a1", status.Next)
	assert.Equal(t, []string{"Analyzing your resume...", "Feedback received"}, tracker.Steps("a1"))
}

func TestStatusTracker_TerminalStateIsFinal(t *testing.T) {
	tracker := NewStatusTracker(time.Hour)
	tracker.Start("a1", "alice")
	tracker.Fail("a1", "Failed to upload resume")
	tracker.Update("a1", models.StateConverting, "Converting to image...")

	status, _ := tracker.Get("a1")
	assert.True(t, status.Failed())
	assert.Equal(t, "Failed to upload resume", status.StatusText)
	assert.Len(t, tracker.Steps("a1"), 1)
}

func TestStatusTracker_UnknownID(t *testing.T) {
	tracker := NewStatusTracker(time.Hour)
	tracker.Update("nope", models.StateUploading, "x")

	_, ok := tracker.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, tracker.Steps("nope"))
}

func TestStatusTracker_PrunesOldTerminalRuns(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewStatusTracker(time.Minute).(*memoryStatusTracker)
	tracker.now = func() time.Time { return now }

	tracker.Start("done", "alice")
	tracker.Complete("done", "Feedback received", "/resume/done")
	tracker.Start("running", "alice")
	tracker.Update("running", models.StateConverting, "Converting to image...")

	now = now.Add(2 * time.Minute)
	tracker.Start("new", "alice")

	_, ok := tracker.Get("done")
	assert.False(t, ok)
	_, ok = tracker.Get("running")
	assert.True(t, ok)
}
