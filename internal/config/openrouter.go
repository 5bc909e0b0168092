package config

import (
	"sync"
	"time"
)

type OpenRouterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	JudgeModel  string
	Temperature float64
	// Timeout bounds a single attempt; one retry follows a transient failure.
	Timeout time.Duration
}

var (
	openRouterConfig *OpenRouterConfig
	openRouterOnce   sync.Once
)

func LoadOpenRouterConfig() *OpenRouterConfig {
	openRouterOnce.Do(func() {
		model := getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini")
		openRouterConfig = &OpenRouterConfig{
			APIKey:      getEnv("OPENROUTER_API_KEY", ""),
			BaseURL:     getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:       model,
			JudgeModel:  getEnv("OPENROUTER_JUDGE_MODEL", model),
			Temperature: getEnvFloat("OPENROUTER_TEMPERATURE", 0.7),
			Timeout:     getEnvDuration("OPENROUTER_TIMEOUT", 30*time.Second),
		}
	})
	return openRouterConfig
}
