package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resumewise/resume-analyzer/internal/models"
	"resumewise/resume-analyzer/internal/services"
)

type AnalysisHandler struct {
	tracker services.StatusTracker
}

func NewAnalysisHandler(tracker services.StatusTracker) *AnalysisHandler {
	return &AnalysisHandler{tracker: tracker}
}

// HandleGetStatus handles GET /analyses/:id
func (h *AnalysisHandler) HandleGetStatus(c *fiber.Ctx) error {
	status, ok := h.tracker.Get(c.Params("id"))
	if !ok || status.Owner != currentUser(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	}

	return c.JSON(models.AnalysisStatusResponse{
		ID:     status.ID,
		State:  status.State,
		Status: status.StatusText,
		Done:   status.Done(),
		Failed: status.Failed(),
		Next:   status.Next,
		Steps:  h.tracker.Steps(status.ID),
	})
}
