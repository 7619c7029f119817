package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"resumewise/resume-analyzer/internal/repositories"
	"resumewise/resume-analyzer/internal/services"
)

type FileHandler struct {
	files services.StorageService
	docs  repositories.DocumentRepository
}

// NewFileHandler serves stored blobs; docs, when set, supplies the original file name.
func NewFileHandler(files services.StorageService, docs repositories.DocumentRepository) *FileHandler {
	return &FileHandler{files: files, docs: docs}
}

// HandleGetFile handles GET /files/*
func (h *FileHandler) HandleGetFile(c *fiber.Ctx) error {
	filePath, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid file path",
		})
	}

	data, err := h.files.Read(c.UserContext(), currentUser(c), filePath)
	if err != nil {
		if errors.Is(err, services.ErrBlobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "File not found",
			})
		}
		log.Printf("❌ Failed to read %s: %v", filePath, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read file",
		})
	}

	c.Set(fiber.HeaderContentType, mimetype.Detect(data).String())
	if h.docs != nil {
		if doc, err := h.docs.FindByPath(c.UserContext(), currentUser(c), filePath); err == nil {
			c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", doc.OriginalFileName))
		}
	}
	return c.Send(data)
}
