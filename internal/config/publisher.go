package config

import (
	"sync"
	"time"
)

type PublisherConfig struct {
	WebhookURL string
	Token      string
	Timeout    time.Duration
}

var (
	publisherConfig *PublisherConfig
	publisherOnce   sync.Once
)

func LoadPublisherConfig() *PublisherConfig {
	publisherOnce.Do(func() {
		publisherConfig = &PublisherConfig{
			WebhookURL: getEnv("PUBLISH_WEBHOOK_URL", ""),
			Token:      getEnv("PUBLISH_WEBHOOK_TOKEN", ""),
			Timeout:    getEnvDuration("PUBLISH_TIMEOUT", 30*time.Second),
		}
	})
	return publisherConfig
}
