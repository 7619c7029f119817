package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"

	"resumewise/resume-analyzer/internal/models"
)

// AIService asks the model for feedback on stored documents.
type AIService interface {
	Feedback(ctx context.Context, owner, filePath, instructions string) (*models.AIResponse, error)
	FeedbackJobDescription(ctx context.Context, owner, resumePath, jobPath, instructions string) (*models.AIResponse, error)
}

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client     *genai.Client
	files      StorageService
	modelName  string
	embedModel string
}

type GeminiService interface {
	AIService
	Embedder
}

func NewGeminiService(apiKey, model, embedModel string, files StorageService) (GeminiService, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		files:      files,
		modelName:  model,
		embedModel: embedModel,
	}, nil
}

// Feedback implements AIService.
func (g *geminiService) Feedback(ctx context.Context, owner, filePath, instructions string) (*models.AIResponse, error) {
	resume, err := g.files.Read(ctx, owner, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}

	return g.generate(ctx, []*genai.Part{
		genai.NewPartFromBytes(resume, "application/pdf"),
		genai.NewPartFromText(instructions),
	})
}

// FeedbackJobDescription implements AIService.
func (g *geminiService) FeedbackJobDescription(ctx context.Context, owner, resumePath, jobPath, instructions string) (*models.AIResponse, error) {
	resume, err := g.files.Read(ctx, owner, resumePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	job, err := g.files.Read(ctx, owner, jobPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read job description: %w", err)
	}

	return g.generate(ctx, []*genai.Part{
		genai.NewPartFromText("RESUME:"),
		genai.NewPartFromBytes(resume, "application/pdf"),
		genai.NewPartFromText("JOB DESCRIPTION:"),
		genai.NewPartFromBytes(job, "application/pdf"),
		genai.NewPartFromText(instructions),
	})
}

func (g *geminiService) generate(ctx context.Context, parts []*genai.Part) (*models.AIResponse, error) {
	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "application/json",
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v", err)
		return nil, fmt.Errorf("failed to generate feedback: %w", err)
	}

	return toAIResponse(resp)
}

// toAIResponse keeps a single text part as plain content and several parts as a list.
func toAIResponse(resp *genai.GenerateContentResponse) (*models.AIResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response generated")
	}

	var texts []models.ContentPart
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || strings.TrimSpace(part.Text) == "" {
			continue
		}
		texts = append(texts, models.ContentPart{Type: "text", Text: part.Text})
	}

	switch len(texts) {
	case 0:
		return nil, fmt.Errorf("no text content in response")
	case 1:
		return &models.AIResponse{Message: models.AIMessage{
			Role:    "assistant",
			Content: models.NewTextContent(texts[0].Text),
		}}, nil
	default:
		return &models.AIResponse{Message: models.AIMessage{
			Role:    "assistant",
			Content: models.NewListContent(texts...),
		}}, nil
	}
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	text = truncateUTF8(text, 40000)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
