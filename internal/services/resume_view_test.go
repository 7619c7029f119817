package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumewise/resume-analyzer/internal/models"
	"resumewise/resume-analyzer/internal/repositories"
)

func seedRecord(t *testing.T, kv repositories.KVRepository, owner string, record *models.ResumeRecord) {
	value, err := record.Encode()
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), owner, record.ID, value))
}

func TestResumeView_ListSkipsMalformed(t *testing.T) {
	ctx := context.Background()
	kv := repositories.NewMemoryKVRepository()
	seedRecord(t, kv, "alice", &models.ResumeRecord{ID: "r1", CompanyName: "Acme"})
	seedRecord(t, kv, "alice", &models.ResumeRecord{ID: "r2", CompanyName: "Globex"})
	require.NoError(t, kv.Set(ctx, "alice", "broken", "{not json"))
	seedRecord(t, kv, "bob", &models.ResumeRecord{ID: "r3"})

	resp, err := NewResumeViewService(kv, newFakeStorage(&callLog{})).List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, resp.Resumes, 2)
	assert.Equal(t, 1, resp.Skipped)
}

func TestResumeView_ListEmpty(t *testing.T) {
	resp, err := NewResumeViewService(repositories.NewMemoryKVRepository(), newFakeStorage(&callLog{})).List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, resp.Resumes)
	assert.Zero(t, resp.Skipped)
}

func TestResumeView_DetailWithFeedback(t *testing.T) {
	kv := repositories.NewMemoryKVRepository()
	files := newFakeStorage(&callLog{})
	files.put("alice/resume.pdf", fakePDF(10))
	files.put("alice/resume.png", []byte("png"))

	seedRecord(t, kv, "alice", &models.ResumeRecord{
		ID:             "r1",
		ResumePath:     "alice/resume.pdf",
		ImagePath:      "alice/resume.png",
		CompanyName:    "Acme",
		JobTitle:       "Engineer",
		JobDescription: "Build things",
		Feedback:       models.NewFeedback([]byte(validFeedback)),
	})

	resp, err := NewResumeViewService(kv, files).Detail(context.Background(), "alice", "r1")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/alice/resume.pdf", resp.ResumeURL)
	assert.Equal(t, "/api/v1/files/alice/resume.png", resp.ImageURL)
	assert.Empty(t, resp.JobDescriptionURL)
	assert.False(t, resp.Pending)

	require.NotNil(t, resp.Summary)
	assert.Equal(t, 74.0, resp.Summary.OverallScore)
	require.Len(t, resp.Summary.Categories, 4)
	assert.Equal(t, models.CategoryScore{Name: "Tone & Style", Score: 70}, resp.Summary.Categories[0])
	require.NotNil(t, resp.ATS)
	assert.Equal(t, 81.0, resp.ATS.Score)
	assert.Len(t, resp.Details, 4)
}

func TestResumeView_DetailMissingBlobsAndPending(t *testing.T) {
	kv := repositories.NewMemoryKVRepository()
	files := newFakeStorage(&callLog{})
	files.put("alice/resume.pdf", fakePDF(10))
	files.put("alice/job.pdf", fakePDF(10))
	files.put("alice/job.png", []byte("png"))

	seedRecord(t, kv, "alice", &models.ResumeRecord{
		ID:                      "r1",
		ResumePath:              "alice/resume.pdf",
		ImagePath:               "alice/gone.png",
		JobDescriptionPath:      "alice/job.pdf",
		JobDescriptionImagePath: "alice/job.png",
	})

	resp, err := NewResumeViewService(kv, files).Detail(context.Background(), "alice", "r1")
	require.NoError(t, err)
	assert.Empty(t, resp.ResumeURL)
	assert.Empty(t, resp.ImageURL)
	assert.Equal(t, "/api/v1/files/alice/job.pdf", resp.JobDescriptionURL)
	assert.Equal(t, "/api/v1/files/alice/job.png", resp.JobDescriptionImageURL)
	assert.True(t, resp.HasJobDescription)
	assert.True(t, resp.Pending)
	assert.Nil(t, resp.Summary)
}

func TestResumeView_DetailErrors(t *testing.T) {
	ctx := context.Background()
	kv := repositories.NewMemoryKVRepository()
	require.NoError(t, kv.Set(ctx, "alice", "broken", `{"id": "broken", "feedback": 7}`))
	svc := NewResumeViewService(kv, newFakeStorage(&callLog{}))

	_, err := svc.Detail(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrResumeNotFound)

	_, err = svc.Detail(ctx, "alice", "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrResumeNotFound)
}
