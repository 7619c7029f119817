package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"resumewise/resume-analyzer/internal/models"
	"resumewise/resume-analyzer/internal/repositories"
)

var ErrBlobNotFound = errors.New("blob not found")

// UploadedFile is the handle returned after a blob is stored.
type UploadedFile struct {
	Path string `json:"path"`
}

// FileInput is one file handed to StorageService.Upload.
type FileInput struct {
	Name     string
	Data     []byte
	FileType models.FileType
}

// BlobStore is the raw byte storage behind StorageService.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

type StorageService interface {
	Upload(ctx context.Context, owner string, file FileInput) (*UploadedFile, error)
	Read(ctx context.Context, owner, filePath string) ([]byte, error)
	Exists(ctx context.Context, owner, filePath string) (bool, error)
}

type storageService struct {
	blobs   BlobStore
	docRepo repositories.DocumentRepository
}

// NewStorageService records every upload in docRepo when it is non-nil.
func NewStorageService(blobs BlobStore, docRepo repositories.DocumentRepository) StorageService {
	return &storageService{
		blobs:   blobs,
		docRepo: docRepo,
	}
}

func (s *storageService) Upload(ctx context.Context, owner string, file FileInput) (*UploadedFile, error) {
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("failed to upload %s: empty file", file.Name)
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	if ext == "" {
		ext = mimetype.Detect(file.Data).Extension()
	}
	contentType := mimetype.Detect(file.Data).String()

	key := path.Join(ownerDir(owner), fmt.Sprintf("%s_%s%s", file.FileType, uuid.New().String(), ext))

	if err := s.blobs.Put(ctx, key, contentType, file.Data); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", file.Name, err)
	}

	if s.docRepo != nil {
		doc := models.Document{
			ID:               uuid.New(),
			Owner:            owner,
			OriginalFileName: file.Name,
			FileType:         file.FileType,
			MimeType:         contentType,
			SizeBytes:        int64(len(file.Data)),
			StoragePath:      key,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		if err := s.docRepo.Create(ctx, &doc); err != nil {
			// Cleanup the blob if the document record cannot be written
			_ = s.blobs.Delete(ctx, key)
			return nil, fmt.Errorf("failed to record %s: %w", file.Name, err)
		}
	}

	return &UploadedFile{Path: key}, nil
}

func (s *storageService) Read(ctx context.Context, owner, filePath string) ([]byte, error) {
	key, err := ownedKey(owner, filePath)
	if err != nil {
		return nil, err
	}
	return s.blobs.Get(ctx, key)
}

func (s *storageService) Exists(ctx context.Context, owner, filePath string) (bool, error) {
	key, err := ownedKey(owner, filePath)
	if err != nil {
		return false, nil
	}
	return s.blobs.Exists(ctx, key)
}

func ownerDir(owner string) string {
	return strings.ReplaceAll(strings.TrimSpace(owner), "/", "_")
}

// ownedKey rejects paths outside the owner's directory.
func ownedKey(owner, filePath string) (string, error) {
	if filePath == "" {
		return "", ErrBlobNotFound
	}
	clean := path.Clean("/" + filePath)[1:]
	if !strings.HasPrefix(clean, ownerDir(owner)+"/") {
		return "", ErrBlobNotFound
	}
	return clean, nil
}

// LocalBlobStore keeps blobs under a directory on disk.
type LocalBlobStore struct {
	uploadPath string
}

func NewLocalBlobStore(uploadPath string) *LocalBlobStore {
	return &LocalBlobStore{
		uploadPath: uploadPath,
	}
}

func (s *LocalBlobStore) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *LocalBlobStore) Put(ctx context.Context, key, _ string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filePath := s.filePath(key)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func (s *LocalBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *LocalBlobStore) Exists(_ context.Context, key string) (bool, error) {
	info, err := os.Stat(s.filePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return !info.IsDir(), nil
}

func (s *LocalBlobStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.filePath(key)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalBlobStore) filePath(key string) string {
	return filepath.Join(s.uploadPath, filepath.FromSlash(key))
}
