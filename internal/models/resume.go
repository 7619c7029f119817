package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResumeRecord is the persisted analysis record, stored as a JSON string under its ID.
type ResumeRecord struct {
	ID                      string   `json:"id"`
	ResumePath              string   `json:"resumePath"`
	ImagePath               string   `json:"imagePath"`
	JobDescriptionPath      string   `json:"jobDescriptionPath,omitempty"`
	JobDescriptionImagePath string   `json:"jobDescriptionImagePath,omitempty"`
	CompanyName             string   `json:"companyName"`
	JobTitle                string   `json:"jobTitle"`
	JobDescription          string   `json:"jobDescription"`
	Feedback                Feedback `json:"feedback"`
}

// HasJobDescription reports whether both job description blobs were recorded.
func (r *ResumeRecord) HasJobDescription() bool {
	return r.JobDescriptionPath != "" && r.JobDescriptionImagePath != ""
}

func (r *ResumeRecord) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode resume record: %w", err)
	}
	return string(data), nil
}

func DecodeResumeRecord(value string) (*ResumeRecord, error) {
	var record ResumeRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, fmt.Errorf("failed to decode resume record: %w", err)
	}
	return &record, nil
}

// Feedback holds the AI feedback document as raw JSON. A pending record
// carries an empty Feedback, which is serialized as "".
type Feedback struct {
	raw json.RawMessage
}

func NewFeedback(raw json.RawMessage) Feedback {
	return Feedback{raw: append(json.RawMessage(nil), raw...)}
}

func (f Feedback) IsPending() bool {
	return len(f.raw) == 0
}

func (f Feedback) Raw() json.RawMessage {
	return f.raw
}

func (f Feedback) MarshalJSON() ([]byte, error) {
	if f.IsPending() {
		return []byte(`""`), nil
	}
	return f.raw, nil
}

func (f *Feedback) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte(`""`)) || bytes.Equal(trimmed, []byte("null")) {
		f.raw = nil
		return nil
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("feedback must be an object or empty string")
	}
	f.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// Decode parses the feedback into its typed sections.
func (f Feedback) Decode() (*FeedbackContent, error) {
	if f.IsPending() {
		return nil, fmt.Errorf("feedback is pending")
	}
	var content FeedbackContent
	if err := json.Unmarshal(f.raw, &content); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}
	return &content, nil
}
