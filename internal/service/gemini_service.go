package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/metrics"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"google.golang.org/genai"
)

const maxEmbeddingChars = 10000

// GeminiService generates images and embeddings. Calls are retried with
// exponential backoff. After breakerThreshold consecutive server-side
// failures the breaker opens for breakerCooldown, then lets one trial call
// through before closing again.
type GeminiService struct {
	Client         *genai.Client
	ImageModel     string
	EmbeddingModel string
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration
	breaker        circuitbreaker.CircuitBreaker[any]
	logger         logging.Logger
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, logger logging.Logger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiService{
		Client:         client,
		ImageModel:     cfg.ImageModel,
		EmbeddingModel: cfg.EmbeddingModel,
		MaxRetries:     1,
		BaseDelay:      time.Second,
		MaxDelay:       10 * time.Second,
		RequestTimeout: 30 * time.Second,
		breaker:        newBreaker(5, 30*time.Second, logger),
		logger:         logger,
	}, nil
}

func newBreaker(threshold uint, cooldown time.Duration, logger logging.Logger) circuitbreaker.CircuitBreaker[any] {
	return circuitbreaker.NewBuilder[any]().
		HandleIf(func(_ any, err error) bool {
			return err != nil && !isClientError(err)
		}).
		WithFailureThreshold(threshold).
		WithDelay(cooldown).
		WithSuccessThreshold(1).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			logger.WithFields(logging.Fields{
				"circuit_breaker": "gemini",
				"from_state":      stateName(event.OldState),
				"to_state":        stateName(event.NewState),
			}).Warn("circuit breaker state change")
		}).
		Build()
}

// GenerateImage returns the encoded bytes of one generated image.
func (s *GeminiService) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("image prompt cannot be empty")
	}

	var image []byte
	err := s.withRetry(ctx, "generate_image", func(ctx context.Context) error {
		resp, err := s.Client.Models.GenerateImages(ctx, s.ImageModel, prompt, &genai.GenerateImagesConfig{
			AspectRatio: aspectRatio,
		})
		if err != nil {
			return err
		}
		image, err = validateImageResponse(resp)
		return err
	})
	return image, err
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}

	if n := utf8.RuneCountInString(trimmedText); n > maxEmbeddingChars {
		s.logger.WithField("length", n).Warn("embedding text exceeds limit, truncating")
		trimmedText = truncateRunes(trimmedText, maxEmbeddingChars)
	}

	content := []*genai.Content{genai.NewContentFromText(trimmedText, genai.RoleUser)}

	var embedding []float32
	err := s.withRetry(ctx, "embed", func(ctx context.Context) error {
		resp, err := s.Client.Models.EmbedContent(ctx, s.EmbeddingModel, content, nil)
		if err != nil {
			return err
		}
		embedding, err = validateEmbeddingResponse(resp)
		return err
	})
	return embedding, err
}

func (s *GeminiService) withRetry(ctx context.Context, operation string, call func(ctx context.Context) error) error {
	_, err := failsafe.With[any](s.breaker).Get(func() (any, error) {
		return nil, s.attempt(ctx, operation, call)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		metrics.LLMCallsTotal.WithLabelValues("gemini", operation, "circuit_open").Inc()
		return fmt.Errorf("gemini %s skipped: %w", operation, err)
	}
	return err
}

func (s *GeminiService) attempt(ctx context.Context, operation string, call func(ctx context.Context) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.LLMDuration.WithLabelValues("gemini", operation).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.logger.WithFields(logging.Fields{
				"operation": operation,
				"attempt":   attempt,
				"delay":     delay.String(),
			}).Info("retrying gemini call")

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		err := call(timeoutCtx)
		if err == nil {
			metrics.LLMCallsTotal.WithLabelValues("gemini", operation, "success").Inc()
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			metrics.LLMCallsTotal.WithLabelValues("gemini", operation, "error").Inc()
			return fmt.Errorf("gemini %s failed: %w", operation, err)
		}

		s.logger.WithError(err).WithField("operation", operation).Warn("retryable gemini error")
	}

	metrics.LLMCallsTotal.WithLabelValues("gemini", operation, "error").Inc()
	return fmt.Errorf("max retries (%d) exceeded for %s: %w", s.MaxRetries, operation, lastErr)
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	return delay
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func stateName(state circuitbreaker.State) string {
	switch state {
	case circuitbreaker.OpenState:
		return "open"
	case circuitbreaker.HalfOpenState:
		return "half-open"
	default:
		return "closed"
	}
}

// isClientError reports a rejected request, such as a blocked prompt, that
// says nothing about the health of the API.
func isClientError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	code, ok := apiErrorCode(err)
	return ok && code >= 400 && code < 500 && code != 429
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if code, ok := apiErrorCode(err); ok {
		return code == 429 || code >= 500
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF")
}

func validateImageResponse(resp *genai.GenerateImagesResponse) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("no images in response")
	}
	img := resp.GeneratedImages[0]
	if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("generated image is empty")
	}
	return img.Image.ImageBytes, nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embeddings := resp.Embeddings[0].Values

	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}

	for i, val := range embeddings {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}

	return embeddings, nil
}

func truncateRunes(text string, limit int) string {
	i := 0
	for pos := range text {
		if i == limit {
			return text[:pos]
		}
		i++
	}
	return text
}
