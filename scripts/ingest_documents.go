package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resumewise/resume-analyzer/internal/config"
	"resumewise/resume-analyzer/internal/services"
)

var (
	ingestDir       string
	ingestChunkSize int
	ingestOverlap   int
	ingestReplace   bool
)

var rootCmd = &cobra.Command{
	Use:   "ingest_documents [pdf...]",
	Short: "Load ATS guideline PDFs into Qdrant",
	Long:  "Extracts text from ATS guideline PDFs, chunks it, embeds each chunk with Gemini and upserts the vectors into the guidance collection used during resume analysis.",
	RunE:  runIngest,
}

func init() {
	rootCmd.Flags().StringVarP(&ingestDir, "dir", "d", "./reference_docs", "Directory scanned for *.pdf when no files are given")
	rootCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 1000, "Maximum characters per chunk")
	rootCmd.Flags().IntVar(&ingestOverlap, "overlap", 200, "Characters carried over between chunks")
	rootCmd.Flags().BoolVar(&ingestReplace, "replace", false, "Delete previously ingested chunks of each document first")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	log.Println("🚀 Starting guideline ingestion...")

	cfg := config.Load()
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if !cfg.Qdrant.Enabled() {
		return fmt.Errorf("QDRANT_URL is required")
	}

	paths := args
	if len(paths) == 0 {
		found, err := filepath.Glob(filepath.Join(ingestDir, "*.pdf"))
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", ingestDir, err)
		}
		paths = found
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files to ingest")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// embeddings only, no stored files are read
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini: %w", err)
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		return fmt.Errorf("failed to initialize Qdrant: %w", err)
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		return fmt.Errorf("failed to initialize collection: %w", err)
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()

	successCount := 0
	failCount := 0

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		log.Printf("\n📄 Processing: %s", path)

		content, err := pdfParser.ExtractTextWithMetaData(path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}
		log.Printf("   ✅ Extracted %d pages, %d characters", content.PageCount, len(content.Text))

		chunks := chunker.ChunkText(content.Text, ingestChunkSize, ingestOverlap)
		log.Printf("   ✂️  Created %d chunks", len(chunks))

		stored := 0
		for i, chunk := range chunks {
			docID := fmt.Sprintf("%s_%s_chunk_%d", services.GuidelineDocType, name, i)

			if ingestReplace {
				if err := qdrantService.DeleteDocument(ctx, docID); err != nil {
					log.Printf("   ⚠️  Failed to delete old chunk %d: %v", i+1, err)
				}
			}

			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			if err := qdrantService.UpsertDocument(ctx, docID, services.GuidelineDocType, chunk, embedding); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}
			stored++

			if (i+1)%5 == 0 || i == len(chunks)-1 {
				log.Printf("   📊 Progress: %d/%d chunks stored", i+1, len(chunks))
			}
		}

		if stored == 0 {
			failCount++
			continue
		}
		log.Printf("   ✅ Ingested %s", name)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		return fmt.Errorf("%d documents failed to ingest", failCount)
	}
	return nil
}
