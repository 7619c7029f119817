package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"resumewise/resume-analyzer/internal/models"
	"resumewise/resume-analyzer/internal/services"
)

const (
	resumeField = "resume"
	jobPDFField = "job-pdf"
)

type UploadHandler struct {
	worker      services.Worker
	tracker     services.StatusTracker
	validate    *validator.Validate
	maxFileSize int64
}

func NewUploadHandler(
	worker services.Worker,
	tracker services.StatusTracker,
	validate *validator.Validate,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		worker:      worker,
		tracker:     tracker,
		validate:    validate,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload handles POST /upload: one résumé plus company, title and description.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	var form models.UploadForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}
	form.CompanyName = strings.TrimSpace(form.CompanyName)
	form.JobTitle = strings.TrimSpace(form.JobTitle)
	form.JobDescription = strings.TrimSpace(form.JobDescription)

	if err := h.validate.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	resume, err := h.selectFile(c, resumeField)
	if err != nil {
		return badFile(c, resumeField, err)
	}

	job := services.NewAnalysisJob(currentUser(c), resume, form.CompanyName, form.JobTitle, form.JobDescription)
	return h.submit(c, job)
}

// HandleJobPDFUpload handles POST /upload/job-pdf: a résumé and a job description PDF.
func (h *UploadHandler) HandleJobPDFUpload(c *fiber.Ctx) error {
	jobPDF, err := h.selectFile(c, jobPDFField)
	if err != nil {
		return badFile(c, jobPDFField, err)
	}

	resume, err := h.selectFile(c, resumeField)
	if err != nil {
		return badFile(c, resumeField, err)
	}

	job := services.NewJobDescriptionAnalysisJob(currentUser(c), resume, jobPDF)
	return h.submit(c, job)
}

// selectFile runs the form field through a FileUploader and returns its selection.
func (h *UploadHandler) selectFile(c *fiber.Ctx, field string) (*services.SelectedFile, error) {
	var selected *services.SelectedFile
	uploader := services.NewFileUploader(h.maxFileSize, func(f *services.SelectedFile) {
		selected = f
	})

	form, err := c.MultipartForm()
	if err != nil {
		uploader.Remove()
		return nil, services.ErrNoFile
	}

	if err := uploader.Drop(services.CandidatesFromForm(form.File[field])...); err != nil {
		return nil, err
	}
	return selected, nil
}

func (h *UploadHandler) submit(c *fiber.Ctx, job *services.AnalysisJob) error {
	h.tracker.Start(job.ID, job.Owner)

	if err := h.worker.EnqueueJob(job); err != nil {
		h.tracker.Fail(job.ID, "Failed to upload resume")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:        job.ID,
		State:     models.StateIdle,
		StatusURL: "/api/v1/analyses/" + job.ID,
	})
}

func badFile(c *fiber.Ctx, field string, err error) error {
	status := fiber.StatusBadRequest
	if errors.Is(err, services.ErrFileTooLarge) {
		status = fiber.StatusRequestEntityTooLarge
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"field": field,
	})
}
