package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
)

func newTestPublisher(url string) *WebhookPublisher {
	return NewWebhookPublisher(&config.PublisherConfig{
		WebhookURL: url,
		Token:      "relay-token",
		Timeout:    5 * time.Second,
	}, logging.Discard())
}

func TestWebhookPublisherSuccess(t *testing.T) {
	post := &model.Post{
		ID:               uuid.New(),
		Platform:         "linkedin",
		GeneratedContent: "draft text",
		FinalContent:     "edited text",
		Hashtags:         "Hiring Tech",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer relay-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, post.ID.String(), body["post_id"])
		assert.Equal(t, "edited text", body["content"])
		assert.Equal(t, []any{"Hiring", "Tech"}, body["hashtags"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","platform_post_id":"urn:li:share:42"}`))
	}))
	defer srv.Close()

	res := newTestPublisher(srv.URL).Publish(context.Background(), post)
	assert.True(t, res.OK())
	assert.Equal(t, "urn:li:share:42", res.PlatformPostID)
}

func TestWebhookPublisherReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"failed","error":"token expired"}`))
	}))
	defer srv.Close()

	res := newTestPublisher(srv.URL).Publish(context.Background(), &model.Post{ID: uuid.New(), Platform: "twitter"})
	assert.False(t, res.OK())
	assert.Equal(t, model.PublishFailed, res.Status)
	assert.Equal(t, "token expired", res.Error)
}

func TestWebhookPublisherHTTPError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res := newTestPublisher(srv.URL).Publish(context.Background(), &model.Post{ID: uuid.New(), Platform: "twitter"})
	assert.Equal(t, model.PublishFailed, res.Status)
	assert.Contains(t, res.Error, "status 503")
	assert.Equal(t, 1, calls)
}

func TestWebhookPublisherUnconfigured(t *testing.T) {
	res := newTestPublisher("").Publish(context.Background(), &model.Post{ID: uuid.New(), Platform: "facebook"})
	assert.Equal(t, model.PublishFailed, res.Status)
	assert.NotEmpty(t, res.Error)
}
