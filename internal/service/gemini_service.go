package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"talenthub/internal/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// TextGenerator is the "text in, text out" contract the orchestrator depends
// on. It is agnostic to which model sits behind it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Embedder produces embedding vectors for corpus retrieval.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiService struct {
	client *genai.Client
	cfg    *config.GeminiConfig
	logger *zap.Logger
}

func NewGeminiService(ctx context.Context, logger *zap.Logger) (*GeminiService, error) {
	cfg := config.LoadGeminiConfig()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiService{client: client, cfg: cfg, logger: logger}, nil
}

// GenerateText sends a single-turn prompt and returns the first textual
// response. Exactly one call per invocation: failures surface to the caller,
// which owns the fallback policy.
func (s *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.cfg.Temperature),
		MaxOutputTokens: s.cfg.MaxOutputTokens,
	}

	result, err := s.client.Models.GenerateContent(timeoutCtx, s.cfg.Model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if err := validateGenerateResponse(result); err != nil {
		return "", fmt.Errorf("invalid response: %w", err)
	}

	text := result.Text()
	s.logger.Debug("gemini response received",
		zap.Int("prompt_len", len(prompt)),
		zap.Int("response_len", len(text)))
	return text, nil
}

// GenerateEmbedding embeds text for vector retrieval over the job corpus.
func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if len(trimmed) > 10000 {
		s.logger.Warn("embedding input truncated", zap.Int("original_len", len(trimmed)))
		trimmed = trimmed[:10000]
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}
	result, err := s.client.Models.EmbedContent(timeoutCtx, s.cfg.EmbeddingModel, content, nil)
	if err != nil {
		return nil, fmt.Errorf("generate embedding: %w", err)
	}

	return validateEmbeddingResponse(result)
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, val := range values {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return values, nil
}
