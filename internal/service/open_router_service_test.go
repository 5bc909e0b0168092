package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
)

func newTestOpenRouter(url string) *OpenRouterService {
	return NewOpenRouterService(&config.OpenRouterConfig{
		APIKey:      "test-key",
		BaseURL:     url,
		Model:       "gen-model",
		JudgeModel:  "judge-model",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}, logging.Discard())
}

func TestOpenRouterJudge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "judge-model", body["model"])
		assert.Equal(t, 0.0, body["temperature"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"passed\": true, \"score\": 0.9}"}}]}`))
	}))
	defer srv.Close()

	out, err := newTestOpenRouter(srv.URL).Judge(context.Background(), "rate this")
	require.NoError(t, err)
	assert.Equal(t, `{"passed": true, "score": 0.9}`, out)
}

func TestOpenRouterRetriesOnceOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Fresh post"}}]}`))
	}))
	defer srv.Close()

	out, err := newTestOpenRouter(srv.URL).Generate(context.Background(), "system", "write", 200)
	require.NoError(t, err)
	assert.Equal(t, "Fresh post", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOpenRouterGivesUpAfterOneRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestOpenRouter(srv.URL).Judge(context.Background(), "rate this")
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOpenRouterNoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer srv.Close()

	_, err := newTestOpenRouter(srv.URL).Judge(context.Background(), "rate this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenRouterEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestOpenRouter(srv.URL).Generate(context.Background(), "system", "write", 0)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
