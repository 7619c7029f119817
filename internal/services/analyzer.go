package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"resumewise/resume-analyzer/internal/models"
	"resumewise/resume-analyzer/internal/repositories"
	"resumewise/resume-analyzer/internal/utils"
)

type JobKind string

const (
	JobSingle JobKind = "single"
	JobDual   JobKind = "dual"
)

// AnalysisJob is one analyze run. Its ID is fixed when the job is created.
type AnalysisJob struct {
	ID             string
	Owner          string
	Kind           JobKind
	Resume         *SelectedFile
	JobPDF         *SelectedFile
	CompanyName    string
	JobTitle       string
	JobDescription string
}

func NewAnalysisJob(owner string, resume *SelectedFile, companyName, jobTitle, jobDescription string) *AnalysisJob {
	return &AnalysisJob{
		ID:             utils.GenerateUUID(),
		Owner:          owner,
		Kind:           JobSingle,
		Resume:         resume,
		CompanyName:    companyName,
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
	}
}

// NewJobDescriptionAnalysisJob leaves company, title and description for the model to extract.
func NewJobDescriptionAnalysisJob(owner string, resume, jobPDF *SelectedFile) *AnalysisJob {
	return &AnalysisJob{
		ID:     utils.GenerateUUID(),
		Owner:  owner,
		Kind:   JobDual,
		Resume: resume,
		JobPDF: jobPDF,
	}
}

// ResultPath is where the finished record is shown.
func ResultPath(id string) string {
	return "/resume/" + id
}

type AnalyzerService interface {
	Analyze(ctx context.Context, job *AnalysisJob) error
}

type analyzerService struct {
	files     StorageService
	converter PDFConverter
	kv        repositories.KVRepository
	ai        AIService
	prompts   *PromptBuilder
	validator *FeedbackValidator
	guidance  GuidanceService
	events    EventPublisher
	tracker   StatusTracker
}

// NewAnalyzerService wires the analyze pipeline. guidance may be nil.
func NewAnalyzerService(
	files StorageService,
	converter PDFConverter,
	kv repositories.KVRepository,
	ai AIService,
	prompts *PromptBuilder,
	validator *FeedbackValidator,
	guidance GuidanceService,
	events EventPublisher,
	tracker StatusTracker,
) AnalyzerService {
	if events == nil {
		events = NewNoopPublisher()
	}
	return &analyzerService{
		files:     files,
		converter: converter,
		kv:        kv,
		ai:        ai,
		prompts:   prompts,
		validator: validator,
		guidance:  guidance,
		events:    events,
		tracker:   tracker,
	}
}

// Analyze implements AnalyzerService.
func (a *analyzerService) Analyze(ctx context.Context, job *AnalysisJob) error {
	if job == nil || job.Resume == nil {
		return fmt.Errorf("analysis job has no resume")
	}

	log.Printf("🔍 Analyzing %s for %s (%s)", job.ID, job.Owner, job.Kind)

	if job.Kind == JobDual {
		if job.JobPDF == nil {
			return a.fail(job.ID, "Failed to upload job description", fmt.Errorf("no job description file"))
		}
		return a.analyzeWithJobDescription(ctx, job)
	}
	return a.analyzeResume(ctx, job)
}

func (a *analyzerService) analyzeResume(ctx context.Context, job *AnalysisJob) error {
	a.step(job.ID, models.StateUploading, "Analyzing your resume...")
	resume, err := a.upload(ctx, job.Owner, job.Resume.Name, job.Resume.Data, models.FileTypeResume)
	if err != nil {
		return a.fail(job.ID, "Failed to upload resume", err)
	}

	a.step(job.ID, models.StateConverting, "Converting to image...")
	image, err := a.converter.Convert(ctx, job.Resume.Name, job.Resume.Data)
	if err != nil {
		return a.fail(job.ID, "Failed to convert to image", err)
	}

	a.step(job.ID, models.StateUploadingImage, "Uploading image...")
	uploadedImage, err := a.upload(ctx, job.Owner, image.Name, image.Data, models.FileTypeResumeImage)
	if err != nil {
		return a.fail(job.ID, "Failed to upload image", err)
	}

	a.step(job.ID, models.StatePersisting, "Preparing data for analysis...")
	record := &models.ResumeRecord{
		ID:             job.ID,
		ResumePath:     resume.Path,
		ImagePath:      uploadedImage.Path,
		CompanyName:    job.CompanyName,
		JobTitle:       job.JobTitle,
		JobDescription: job.JobDescription,
	}
	if err := a.save(ctx, job.Owner, record); err != nil {
		return a.fail(job.ID, "Failed to save resume data", err)
	}

	a.step(job.ID, models.StateAwaitingFeedback, "Analyzing...")
	guidance := a.lookupGuidance(ctx, a.prompts.BuildGuidanceQuery(job.JobTitle, job.JobDescription))
	instructions := a.prompts.BuildFeedbackInstructions(job.JobTitle, job.JobDescription, guidance)

	resp, err := a.ai.Feedback(ctx, job.Owner, resume.Path, instructions)
	if err != nil {
		return a.fail(job.ID, "Failed to get feedback", err)
	}
	text := resp.Text()
	if text == "" {
		return a.fail(job.ID, "Failed to get feedback", fmt.Errorf("empty response"))
	}

	feedback, err := a.validator.ParseFeedback(text)
	if err != nil {
		return a.fail(job.ID, "Failed to parse feedback", err)
	}

	record.Feedback = models.NewFeedback(feedback)
	if err := a.save(ctx, job.Owner, record); err != nil {
		return a.fail(job.ID, "Failed to save feedback", err)
	}

	a.finish(ctx, job, record)
	return nil
}

func (a *analyzerService) analyzeWithJobDescription(ctx context.Context, job *AnalysisJob) error {
	a.step(job.ID, models.StateUploading, "Analyzing your resume...")
	resume, err := a.upload(ctx, job.Owner, job.Resume.Name, job.Resume.Data, models.FileTypeResume)
	if err != nil {
		return a.fail(job.ID, "Failed to upload resume", err)
	}

	a.step(job.ID, models.StateUploadingJobPDF, "Uploading job description...")
	jobPDF, err := a.upload(ctx, job.Owner, job.JobPDF.Name, job.JobPDF.Data, models.FileTypeJobDescription)
	if err != nil {
		return a.fail(job.ID, "Failed to upload job description", err)
	}

	a.step(job.ID, models.StateConverting, "Converting to image...")
	image, err := a.converter.Convert(ctx, job.Resume.Name, job.Resume.Data)
	if err != nil {
		return a.fail(job.ID, "Failed to convert to image", err)
	}

	// status text is unchanged while the second document converts
	a.step(job.ID, models.StateConvertingJobPDF, "Converting to image...")
	jobImage, err := a.converter.Convert(ctx, job.JobPDF.Name, job.JobPDF.Data)
	if err != nil {
		return a.fail(job.ID, "Failed to convert job description to image", err)
	}

	a.step(job.ID, models.StateUploadingImage, "Uploading image...")
	uploadedImage, err := a.upload(ctx, job.Owner, image.Name, image.Data, models.FileTypeResumeImage)
	if err != nil {
		return a.fail(job.ID, "Failed to upload image", err)
	}

	a.step(job.ID, models.StateUploadingJobImage, "Uploading job description image...")
	uploadedJobImage, err := a.upload(ctx, job.Owner, jobImage.Name, jobImage.Data, models.FileTypeJobDescriptionImage)
	if err != nil {
		return a.fail(job.ID, "Failed to upload job description image", err)
	}

	a.step(job.ID, models.StatePersisting, "Preparing data for analysis...")
	record := &models.ResumeRecord{
		ID:                      job.ID,
		ResumePath:              resume.Path,
		ImagePath:               uploadedImage.Path,
		JobDescriptionPath:      jobPDF.Path,
		JobDescriptionImagePath: uploadedJobImage.Path,
	}
	if err := a.save(ctx, job.Owner, record); err != nil {
		return a.fail(job.ID, "Failed to save resume data", err)
	}

	a.step(job.ID, models.StateAwaitingFeedback, "Analyzing...")
	guidance := a.lookupGuidance(ctx, a.prompts.BuildGuidanceQuery("", ""))
	instructions := a.prompts.BuildJobDescriptionInstructions(guidance)

	resp, err := a.ai.FeedbackJobDescription(ctx, job.Owner, resume.Path, jobPDF.Path, instructions)
	if err != nil {
		return a.fail(job.ID, "Failed to get feedback", err)
	}
	text := resp.Text()
	if text == "" {
		return a.fail(job.ID, "Failed to get feedback", fmt.Errorf("empty response"))
	}

	var analysis models.JobDescriptionAnalysis
	if err := json.Unmarshal([]byte(extractJSON(text)), &analysis); err != nil {
		return a.fail(job.ID, "Failed to parse feedback", err)
	}
	if err := a.validator.Validate(analysis.Feedback); err != nil {
		return a.fail(job.ID, "Failed to parse feedback", err)
	}

	record.CompanyName = analysis.CompanyName
	record.JobTitle = analysis.JobTitle
	record.JobDescription = analysis.JobDescription
	record.Feedback = models.NewFeedback(analysis.Feedback)
	if err := a.save(ctx, job.Owner, record); err != nil {
		return a.fail(job.ID, "Failed to save feedback", err)
	}

	a.finish(ctx, job, record)
	return nil
}

func (a *analyzerService) upload(ctx context.Context, owner, name string, data []byte, fileType models.FileType) (*UploadedFile, error) {
	uploaded, err := a.files.Upload(ctx, owner, FileInput{Name: name, Data: data, FileType: fileType})
	if err != nil {
		return nil, err
	}
	if uploaded == nil || uploaded.Path == "" {
		return nil, fmt.Errorf("upload of %s returned no path", name)
	}
	return uploaded, nil
}

func (a *analyzerService) save(ctx context.Context, owner string, record *models.ResumeRecord) error {
	value, err := record.Encode()
	if err != nil {
		return err
	}
	return a.kv.Set(ctx, owner, record.ID, value)
}

// lookupGuidance returns "" when retrieval is disabled or fails.
func (a *analyzerService) lookupGuidance(ctx context.Context, query string) string {
	if a.guidance == nil {
		return ""
	}
	guidance, err := a.guidance.Retrieve(ctx, query)
	if err != nil {
		log.Printf("⚠️  Guidance lookup failed, continuing without it: %v", err)
		return ""
	}
	return guidance
}

func (a *analyzerService) finish(ctx context.Context, job *AnalysisJob, record *models.ResumeRecord) {
	a.tracker.Complete(job.ID, "Feedback received", ResultPath(job.ID))
	log.Printf("✅ Feedback received for %s", job.ID)

	event := ResumeAnalyzedEvent{
		ID:          record.ID,
		Owner:       job.Owner,
		CompanyName: record.CompanyName,
		JobTitle:    record.JobTitle,
		AnalyzedAt:  time.Now(),
	}
	if content, err := record.Feedback.Decode(); err == nil {
		event.ATSScore = content.ATS.Score
	}
	if err := a.events.PublishResumeAnalyzed(ctx, event); err != nil {
		log.Printf("⚠️  Failed to publish %s for %s: %v", ResumeAnalyzedRoutingKey, job.ID, err)
	}
}

func (a *analyzerService) step(id string, state models.AnalysisState, text string) {
	a.tracker.Update(id, state, text)
	log.Printf("⏳ [%s] %s", id, text)
}

func (a *analyzerService) fail(id, text string, err error) error {
	a.tracker.Fail(id, text)
	log.Printf("❌ [%s] %s: %v", id, text, err)
	return fmt.Errorf("%s: %w", text, err)
}
