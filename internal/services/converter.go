package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ConvertedImage is the rasterized preview of a PDF's first page.
type ConvertedImage struct {
	Name     string
	MimeType string
	Data     []byte
}

type PDFConverter interface {
	Convert(ctx context.Context, name string, pdfData []byte) (*ConvertedImage, error)
}

type chromeConverter struct {
	parser     PDFParserService
	chromePath string
	timeout    time.Duration
}

// NewChromeConverter renders the first page of a PDF to PNG with headless Chrome.
func NewChromeConverter(parser PDFParserService, chromePath string, timeout time.Duration) PDFConverter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &chromeConverter{
		parser:     parser,
		chromePath: chromePath,
		timeout:    timeout,
	}
}

// Letter size at 96 DPI.
const (
	previewWidth  = 816
	previewHeight = 1056
)

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body{margin:0;background:#fff;font-family:Helvetica,Arial,sans-serif;color:#111}
.page{box-sizing:border-box;width:{{.Width}}px;min-height:{{.Height}}px;padding:56px 64px}
pre{white-space:pre-wrap;word-wrap:break-word;font-family:inherit;font-size:12px;line-height:1.45;margin:0}
</style></head>
<body><div class="page"><pre>{{.Text}}</pre></div></body></html>`))

func (c *chromeConverter) Convert(ctx context.Context, name string, pdfData []byte) (*ConvertedImage, error) {
	text, err := c.parser.ExtractPage(pdfData, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to read first page of %s: %w", name, err)
	}

	var html bytes.Buffer
	if err := previewTemplate.Execute(&html, map[string]interface{}{
		"Title":  name,
		"Text":   CleanText(text),
		"Width":  previewWidth,
		"Height": previewHeight,
	}); err != nil {
		return nil, fmt.Errorf("failed to render preview page: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(c.chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, c.timeout)
	defer cancelRun()

	var png []byte
	err = chromedp.Run(runCtx,
		chromedp.EmulateViewport(previewWidth, previewHeight),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html.String()).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// quality 100 yields PNG
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize %s: %w", name, err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("failed to rasterize %s: empty image", name)
	}

	log.Printf("🖼️  Rendered preview for %s (%d bytes)", name, len(png))

	return &ConvertedImage{
		Name:     imageName(name),
		MimeType: "image/png",
		Data:     png,
	}, nil
}

func imageName(pdfName string) string {
	base := strings.TrimSuffix(filepath.Base(pdfName), filepath.Ext(pdfName))
	if base == "" {
		base = "document"
	}
	return base + ".png"
}
