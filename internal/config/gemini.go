package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

type GeminiConfig struct {
	APIKey          string
	Model           string
	EmbeddingModel  string
	Temperature     float32
	MaxOutputTokens int32
	RequestTimeout  time.Duration
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			model = "gemini-2.5-flash"
		}
		embeddingModel := os.Getenv("GEMINI_EMBEDDING_MODEL")
		if embeddingModel == "" {
			embeddingModel = "gemini-embedding-001"
		}
		timeout := 90 * time.Second
		if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				timeout = time.Duration(secs) * time.Second
			}
		}
		geminiConfig = &GeminiConfig{
			APIKey:          os.Getenv("GEMINI_API_KEY"),
			Model:           model,
			EmbeddingModel:  embeddingModel,
			Temperature:     0.1,
			MaxOutputTokens: 4096,
			RequestTimeout:  timeout,
		}
	})
	return geminiConfig
}
