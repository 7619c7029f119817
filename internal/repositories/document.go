package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resumewise/resume-analyzer/internal/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	FindByPath(ctx context.Context, owner, path string) (*models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(ctx context.Context, document *models.Document) error {
	if err := d.db.WithContext(ctx).Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// FindByPath implements DocumentRepository.
func (d *documentRepository) FindByPath(ctx context.Context, owner, path string) (*models.Document, error) {
	var doc models.Document
	err := d.db.WithContext(ctx).
		Where("owner = ? AND storage_path = ?", owner, path).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document not found: %w", ErrNotFound)
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}
