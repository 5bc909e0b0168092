package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/metrics"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const judgeSystemPrompt = "You are a strict social media quality reviewer. Reply with a single JSON object and nothing else."

var ErrEmptyCompletion = errors.New("no response from LLM")

// OpenRouterService talks to an OpenAI compatible chat completions API.
// Each call is bounded by the configured timeout and retried once on a
// network error, 429 or 5xx.
type OpenRouterService struct {
	client      *resty.Client
	model       string
	judgeModel  string
	temperature float64
	logger      logging.Logger
}

func NewOpenRouterService(cfg *config.OpenRouterConfig, logger logging.Logger) *OpenRouterService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(isTransient)

	return &OpenRouterService{
		client:      client,
		model:       cfg.Model,
		judgeModel:  cfg.JudgeModel,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func isTransient(resp *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Generate drafts text with the generation model.
func (s *OpenRouterService) Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	return s.complete(ctx, "generate", s.model, system, prompt, s.temperature, maxTokens)
}

// Judge asks the judge model for a JSON verdict and returns the raw reply.
func (s *OpenRouterService) Judge(ctx context.Context, prompt string) (string, error) {
	return s.complete(ctx, "judge", s.judgeModel, judgeSystemPrompt, prompt, 0, 500)
}

func (s *OpenRouterService) complete(ctx context.Context, operation, model, system, prompt string, temperature float64, maxTokens int) (string, error) {
	start := time.Now()
	defer func() {
		metrics.LLMDuration.WithLabelValues("openrouter", operation).Observe(time.Since(start).Seconds())
	}()

	body := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
	}
	if maxTokens > 0 {
		body["max_tokens"] = maxTokens
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues("openrouter", operation, "error").Inc()
		return "", fmt.Errorf("openrouter %s: %w", operation, err)
	}
	if resp.IsError() {
		metrics.LLMCallsTotal.WithLabelValues("openrouter", operation, "error").Inc()
		s.logger.WithFields(logging.Fields{
			"operation": operation,
			"status":    resp.StatusCode(),
		}).Warn("openrouter request failed")
		return "", fmt.Errorf("openrouter %s: status %d: %s", operation, resp.StatusCode(), gjson.Get(resp.String(), "error.message").String())
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		metrics.LLMCallsTotal.WithLabelValues("openrouter", operation, "empty").Inc()
		return "", ErrEmptyCompletion
	}

	metrics.LLMCallsTotal.WithLabelValues("openrouter", operation, "success").Inc()
	return text, nil
}
