package services

import (
	"sync"
	"time"

	"resumewise/resume-analyzer/internal/models"
)

// StatusTracker records the progress of analyze runs.
type StatusTracker interface {
	Start(id, owner string)
	Update(id string, state models.AnalysisState, text string)
	Fail(id, text string)
	Complete(id, text, next string)
	Get(id string) (models.AnalysisStatus, bool)
	Steps(id string) []string
}

type trackedRun struct {
	status models.AnalysisStatus
	steps  []string
}

type memoryStatusTracker struct {
	mu        sync.RWMutex
	runs      map[string]*trackedRun
	retention time.Duration
	now       func() time.Time
}

// NewStatusTracker keeps finished runs for retention before forgetting them.
func NewStatusTracker(retention time.Duration) StatusTracker {
	if retention <= 0 {
		retention = time.Hour
	}
	return &memoryStatusTracker{
		runs:      make(map[string]*trackedRun),
		retention: retention,
		now:       time.Now,
	}
}

func (t *memoryStatusTracker) Start(id, owner string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.prune()
	t.runs[id] = &trackedRun{status: models.AnalysisStatus{
		ID:        id,
		Owner:     owner,
		State:     models.StateIdle,
		UpdatedAt: t.now(),
	}}
}

func (t *memoryStatusTracker) Update(id string, state models.AnalysisState, text string) {
	t.set(id, state, text, "")
}

func (t *memoryStatusTracker) Fail(id, text string) {
	t.set(id, models.StateFailed, text, "")
}

func (t *memoryStatusTracker) Complete(id, text, next string) {
	t.set(id, models.StateDone, text, next)
}

func (t *memoryStatusTracker) set(id string, state models.AnalysisState, text, next string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[id]
	if !ok || run.status.State.Terminal() {
		return
	}
	run.status.State = state
	run.status.StatusText = text
	run.status.Next = next
	run.status.UpdatedAt = t.now()
	run.steps = append(run.steps, text)
}

func (t *memoryStatusTracker) Get(id string) (models.AnalysisStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	run, ok := t.runs[id]
	if !ok {
		return models.AnalysisStatus{}, false
	}
	return run.status, true
}

func (t *memoryStatusTracker) Steps(id string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	run, ok := t.runs[id]
	if !ok {
		return nil
	}
	return append([]string(nil), run.steps...)
}

// prune must be called with mu held.
func (t *memoryStatusTracker) prune() {
	cutoff := t.now().Add(-t.retention)
	for id, run := range t.runs {
		if run.status.State.Terminal() && run.status.UpdatedAt.Before(cutoff) {
			delete(t.runs, id)
		}
	}
}
