package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/metrics"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type PublishResult struct {
	Status         string `json:"status"`
	PlatformPostID string `json:"platform_post_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (r PublishResult) OK() bool {
	return r.Status == model.PublishSuccess
}

// WebhookPublisher hands approved posts to a relay that owns the platform
// credentials. Failures are reported in the result, never retried here.
type WebhookPublisher struct {
	client *resty.Client
	url    string
	logger logging.Logger
}

func NewWebhookPublisher(cfg *config.PublisherConfig, logger logging.Logger) *WebhookPublisher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &WebhookPublisher{client: client, url: cfg.WebhookURL, logger: logger}
}

func (p *WebhookPublisher) Publish(ctx context.Context, post *model.Post) PublishResult {
	result := p.publish(ctx, post)
	metrics.PublishAttemptsTotal.WithLabelValues(post.Platform, result.Status).Inc()

	entry := p.logger.WithFields(logging.Fields{
		"post_id":  post.ID,
		"platform": post.Platform,
		"status":   result.Status,
	})
	if result.OK() {
		entry.WithField("platform_post_id", result.PlatformPostID).Info("post published")
	} else {
		entry.WithField("error", result.Error).Warn("publish failed")
	}
	return result
}

func (p *WebhookPublisher) publish(ctx context.Context, post *model.Post) PublishResult {
	if p.url == "" {
		return PublishResult{Status: model.PublishFailed, Error: "publisher webhook not configured"}
	}

	content := post.FinalContent
	if content == "" {
		content = post.GeneratedContent
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"post_id":   post.ID.String(),
			"platform":  post.Platform,
			"content":   content,
			"hashtags":  strings.Fields(post.Hashtags),
			"image_url": post.ImageURL,
		}).
		Post(p.url)
	if err != nil {
		return PublishResult{Status: model.PublishFailed, Error: err.Error()}
	}

	body := resp.String()
	if resp.IsError() {
		msg := gjson.Get(body, "error").String()
		if msg == "" {
			msg = resp.Status()
		}
		return PublishResult{Status: model.PublishFailed, Error: fmt.Sprintf("status %d: %s", resp.StatusCode(), msg)}
	}

	if gjson.Get(body, "status").String() != model.PublishSuccess {
		msg := gjson.Get(body, "error").String()
		if msg == "" {
			msg = "relay did not report success"
		}
		return PublishResult{Status: model.PublishFailed, Error: msg}
	}

	return PublishResult{
		Status:         model.PublishSuccess,
		PlatformPostID: gjson.Get(body, "platform_post_id").String(),
	}
}
