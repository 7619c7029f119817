package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	ExtractPage(data []byte, pageIndex int) (string, error)
	ExtractTextWithMetaData(filepath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractPage returns the text of one page (1-based). An empty page is not an error.
func (p *pdfParserService) ExtractPage(data []byte, pageIndex int) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	if pageIndex < 1 || pageIndex > r.NumPage() {
		return "", fmt.Errorf("page %d out of range (%d pages)", pageIndex, r.NumPage())
	}
	return collectText(r, pageIndex, pageIndex, false), nil
}

func (p *pdfParserService) ExtractTextWithMetaData(filePath string) (*PDFContent, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	text := collectText(r, 1, r.NumPage(), true)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return &PDFContent{
		Text:      text,
		PageCount: r.NumPage(),
		FilePath:  filePath,
	}, nil
}

func collectText(r *pdf.Reader, from, to int, pageHeaders bool) string {
	var textBuilder strings.Builder
	for pageIndex := from; pageIndex <= to; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are skipped
			continue
		}

		if pageHeaders {
			textBuilder.WriteString(fmt.Sprintf("--- Page %d ---\n", pageIndex))
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}
	return textBuilder.String()
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleanedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
