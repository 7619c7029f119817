package models

import "time"

type AnalysisState string

const (
	StateIdle              AnalysisState = "idle"
	StateUploading         AnalysisState = "uploading"
	StateUploadingJobPDF   AnalysisState = "uploading_job_pdf"
	StateConverting        AnalysisState = "converting"
	StateConvertingJobPDF  AnalysisState = "converting_job_pdf"
	StateUploadingImage    AnalysisState = "uploading_image"
	StateUploadingJobImage AnalysisState = "uploading_job_image"
	StatePersisting        AnalysisState = "persisting"
	StateAwaitingFeedback  AnalysisState = "awaiting_feedback"
	StateDone              AnalysisState = "done"
	StateFailed            AnalysisState = "failed"
)

func (s AnalysisState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// AnalysisStatus is the observable progress of one analyze run.
type AnalysisStatus struct {
	ID         string        `json:"id"`
	Owner      string        `json:"-"`
	State      AnalysisState `json:"state"`
	StatusText string        `json:"status"`
	Next       string        `json:"next,omitempty"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (s AnalysisStatus) Done() bool {
	return s.State == StateDone
}

func (s AnalysisStatus) Failed() bool {
	return s.State == StateFailed
}
