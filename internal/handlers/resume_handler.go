package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"resumewise/resume-analyzer/internal/services"
)

type ResumeHandler struct {
	views services.ResumeViewService
}

func NewResumeHandler(views services.ResumeViewService) *ResumeHandler {
	return &ResumeHandler{views: views}
}

// HandleList handles GET /resumes
func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	resp, err := h.views.List(c.UserContext(), currentUser(c))
	if err != nil {
		log.Printf("❌ Failed to list resumes: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list resumes",
		})
	}
	return c.JSON(resp)
}

// HandleDetail handles GET /resume/:id
func (h *ResumeHandler) HandleDetail(c *fiber.Ctx) error {
	id := c.Params("id")

	resp, err := h.views.Detail(c.UserContext(), currentUser(c), id)
	if err != nil {
		if errors.Is(err, services.ErrResumeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Resume not found",
			})
		}
		log.Printf("❌ Failed to load resume %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load resume",
		})
	}
	return c.JSON(resp)
}
