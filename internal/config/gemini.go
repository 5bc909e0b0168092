package config

import (
	"sync"
)

type GeminiConfig struct {
	APIKey         string
	ImageModel     string
	EmbeddingModel string
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
			ImageModel:     getEnv("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-002"),
			EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "gemini-embedding-001"),
		}
	})
	return geminiConfig
}
