package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeedback = `{
	"overallScore": 78,
	"ATS": {"score": 82, "tips": [{"type": "good", "tip": "Clear headings"}, "Add keywords"]},
	"toneAndStyle": {"score": 70, "tips": []},
	"content": {"score": 75, "tips": [{"type": "improve", "tip": "Quantify impact", "explanation": "Use numbers"}]},
	"structure": {"score": 80, "tips": []},
	"skills": {"score": 65, "tips": []}
}`

func TestResumeRecord_PendingFeedbackIsEmptyString(t *testing.T) {
	record := &ResumeRecord{ID: "r1", ResumePath: "alice/resume.pdf", ImagePath: "alice/resume.png"}

	encoded, err := record.Encode()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(encoded), &raw))
	assert.Equal(t, "", raw["feedback"])
	assert.NotContains(t, raw, "jobDescriptionPath")

	decoded, err := DecodeResumeRecord(encoded)
	require.NoError(t, err)
	assert.True(t, decoded.Feedback.IsPending())
	assert.False(t, decoded.HasJobDescription())
}

func TestResumeRecord_FeedbackRoundTrip(t *testing.T) {
	record := &ResumeRecord{
		ID:          "r2",
		CompanyName: "Acme",
		JobTitle:    "Engineer",
		Feedback:    NewFeedback(json.RawMessage(sampleFeedback)),
	}

	encoded, err := record.Encode()
	require.NoError(t, err)

	decoded, err := DecodeResumeRecord(encoded)
	require.NoError(t, err)
	require.False(t, decoded.Feedback.IsPending())

	content, err := decoded.Feedback.Decode()
	require.NoError(t, err)
	assert.Equal(t, 78.0, content.OverallScore)
	assert.Equal(t, 82.0, content.ATS.Score)
	require.Len(t, content.ATS.Tips, 2)
	assert.Equal(t, "Add keywords", content.ATS.Tips[1].Tip)

	categories := content.Categories()
	require.Len(t, categories, 4)
	assert.Equal(t, "Tone & Style", categories[0].Name)
	assert.Equal(t, "Use numbers", categories[1].Tips[0].Explanation)
}

func TestDecodeResumeRecord_Malformed(t *testing.T) {
	_, err := DecodeResumeRecord("{not json")
	assert.Error(t, err)

	_, err = DecodeResumeRecord(`{"id":"x","feedback":42}`)
	assert.Error(t, err)
}

func TestFeedback_DecodePending(t *testing.T) {
	_, err := Feedback{}.Decode()
	assert.Error(t, err)
}
