package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"resumewise/resume-analyzer/internal/utils"
)

// MaxUploadSize is the per-file ceiling for résumé and job description PDFs.
const MaxUploadSize int64 = 20 * 1024 * 1024

var (
	ErrNoFile       = errors.New("no file selected")
	ErrTooManyFiles = errors.New("only one file can be selected")
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
	ErrNotPDF       = errors.New("only PDF files are accepted")
)

// SelectedFile is a file accepted by the FileUploader.
type SelectedFile struct {
	Name     string
	Size     int64
	MimeType string
	Data     []byte
}

// Candidate is a file offered to the uploader before validation.
type Candidate struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

func CandidatesFromForm(headers []*multipart.FileHeader) []Candidate {
	candidates := make([]Candidate, 0, len(headers))
	for _, h := range headers {
		header := h
		candidates = append(candidates, Candidate{
			Name: header.Filename,
			Size: header.Size,
			Open: func() (io.ReadCloser, error) { return header.Open() },
		})
	}
	return candidates
}

// FileUploader is the single-PDF selection gate. It reports each drop or
// removal to onSelect exactly once; a rejected file is reported as nil.
type FileUploader struct {
	maxSize  int64
	onSelect func(*SelectedFile)
}

func NewFileUploader(maxSize int64, onSelect func(*SelectedFile)) *FileUploader {
	if maxSize <= 0 {
		maxSize = MaxUploadSize
	}
	if onSelect == nil {
		onSelect = func(*SelectedFile) {}
	}
	return &FileUploader{maxSize: maxSize, onSelect: onSelect}
}

// Drop validates the offered files and notifies the callback. The returned
// error explains a rejection.
func (u *FileUploader) Drop(candidates ...Candidate) error {
	file, err := u.accept(candidates)
	u.onSelect(file)
	return err
}

// Remove clears the current selection.
func (u *FileUploader) Remove() {
	u.onSelect(nil)
}

// Hint is the prompt line shown next to the drop target.
func (u *FileUploader) Hint() string {
	return fmt.Sprintf("PDF (max %s)", utils.FormatSize(u.maxSize))
}

func (u *FileUploader) accept(candidates []Candidate) (*SelectedFile, error) {
	switch {
	case len(candidates) == 0:
		return nil, ErrNoFile
	case len(candidates) > 1:
		return nil, ErrTooManyFiles
	}

	c := candidates[0]
	if c.Size > u.maxSize {
		return nil, fmt.Errorf("%w: %s is %s, max %s", ErrFileTooLarge, c.Name, utils.FormatSize(c.Size), utils.FormatSize(u.maxSize))
	}
	if strings.ToLower(filepath.Ext(c.Name)) != ".pdf" {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, c.Name)
	}

	rc, err := c.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.Name, err)
	}
	defer rc.Close()

	// Read one byte past the limit so an understated Size is still caught.
	data, err := io.ReadAll(io.LimitReader(rc, u.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.Name, err)
	}
	if int64(len(data)) > u.maxSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, c.Name)
	}

	mtype := mimetype.Detect(data)
	if !mtype.Is("application/pdf") {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotPDF, c.Name, mtype.String())
	}

	return &SelectedFile{
		Name:     filepath.Base(c.Name),
		Size:     int64(len(data)),
		MimeType: "application/pdf",
		Data:     data,
	}, nil
}

// BytesCandidate wraps in-memory content as a Candidate.
func BytesCandidate(name string, data []byte) Candidate {
	return Candidate{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}
