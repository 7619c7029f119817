package models

import (
	"time"

	"github.com/google/uuid"
)

type FileType string

const (
	FileTypeResume              FileType = "resume"
	FileTypeResumeImage         FileType = "resume_image"
	FileTypeJobDescription      FileType = "job_description"
	FileTypeJobDescriptionImage FileType = "job_description_image"
)

// Document records one blob written to the file store.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Owner            string    `gorm:"type:text;index" json:"owner"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FileType         FileType  `gorm:"type:text" json:"file_type"`
	MimeType         string    `gorm:"type:text" json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	StoragePath      string    `gorm:"type:text;uniqueIndex" json:"path"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
