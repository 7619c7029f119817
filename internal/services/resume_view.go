package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"resumewise/resume-analyzer/internal/models"
	"resumewise/resume-analyzer/internal/repositories"
)

var ErrResumeNotFound = errors.New("resume not found")

// FileURLPrefix is the route that serves stored blobs.
const FileURLPrefix = "/api/v1/files/"

type ResumeViewService interface {
	List(ctx context.Context, owner string) (*models.ResumeListResponse, error)
	Detail(ctx context.Context, owner, id string) (*models.ResumeDetailResponse, error)
}

type resumeViewService struct {
	kv    repositories.KVRepository
	files StorageService
}

func NewResumeViewService(kv repositories.KVRepository, files StorageService) ResumeViewService {
	return &resumeViewService{kv: kv, files: files}
}

// List implements ResumeViewService. Records that fail to decode are skipped.
func (s *resumeViewService) List(ctx context.Context, owner string) (*models.ResumeListResponse, error) {
	items, err := s.kv.List(ctx, owner, "*", true)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	resp := &models.ResumeListResponse{Resumes: make([]models.ResumeRecord, 0, len(items))}
	for _, item := range items {
		record, err := models.DecodeResumeRecord(item.Value)
		if err != nil {
			log.Printf("⚠️  Skipping malformed record %s: %v", item.Key, err)
			resp.Skipped++
			continue
		}
		resp.Resumes = append(resp.Resumes, *record)
	}

	return resp, nil
}

// Detail implements ResumeViewService.
func (s *resumeViewService) Detail(ctx context.Context, owner, id string) (*models.ResumeDetailResponse, error) {
	value, ok, err := s.kv.Get(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume %s: %w", id, err)
	}
	if !ok {
		return nil, ErrResumeNotFound
	}

	record, err := models.DecodeResumeRecord(value)
	if err != nil {
		return nil, err
	}

	resp := &models.ResumeDetailResponse{
		ID:                record.ID,
		CompanyName:       record.CompanyName,
		JobTitle:          record.JobTitle,
		JobDescription:    record.JobDescription,
		HasJobDescription: record.HasJobDescription(),
		Pending:           record.Feedback.IsPending(),
	}

	paths := []string{record.ResumePath, record.ImagePath, record.JobDescriptionPath, record.JobDescriptionImagePath}
	found := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		if p == "" {
			continue
		}
		g.Go(func() error {
			exists, err := s.files.Exists(gctx, owner, p)
			if err != nil {
				log.Printf("⚠️  Failed to resolve %s: %v", p, err)
				return nil
			}
			found[i] = exists
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if found[0] && found[1] {
		resp.ResumeURL = FileURLPrefix + record.ResumePath
		resp.ImageURL = FileURLPrefix + record.ImagePath
	}
	if record.HasJobDescription() && found[2] && found[3] {
		resp.JobDescriptionURL = FileURLPrefix + record.JobDescriptionPath
		resp.JobDescriptionImageURL = FileURLPrefix + record.JobDescriptionImagePath
	}

	if !resp.Pending {
		content, err := record.Feedback.Decode()
		if err != nil {
			return nil, err
		}
		resp.Summary = summarize(content)
		resp.ATS = &content.ATS
		resp.Details = content.Categories()
	}

	return resp, nil
}

func summarize(content *models.FeedbackContent) *models.FeedbackSummary {
	summary := &models.FeedbackSummary{OverallScore: content.OverallScore}
	for _, c := range content.Categories() {
		summary.Categories = append(summary.Categories, models.CategoryScore{Name: c.Name, Score: c.Score})
	}
	return summary
}
