package dto

import (
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
)

type GeneratePostRequest struct {
	Topic           string `json:"topic"`
	Platform        string `json:"platform"`
	Context         string `json:"context"`
	BrandVoice      string `json:"brand_voice"`
	IncludeHashtags *bool  `json:"include_hashtags"`
	GenerateImage   *bool  `json:"generate_image"`
}

func (r GeneratePostRequest) WithHashtags() bool {
	return r.IncludeHashtags == nil || *r.IncludeHashtags
}

func (r GeneratePostRequest) WithImage() bool {
	return r.GenerateImage == nil || *r.GenerateImage
}

type GenerateAllRequest struct {
	Topic           string   `json:"topic"`
	Context         string   `json:"context"`
	BrandVoice      string   `json:"brand_voice"`
	Platforms       []string `json:"platforms"`
	IncludeHashtags *bool    `json:"include_hashtags"`
	GenerateImage   *bool    `json:"generate_image"`
}

// GenerateAllResponse holds the posts that were generated and, per platform,
// why generation failed for the others.
type GenerateAllResponse struct {
	Posts  map[string]*model.Post `json:"posts"`
	Failed map[string]string      `json:"failed,omitempty"`
}

type RegenerateRequest struct {
	Context    string `json:"context"`
	BrandVoice string `json:"brand_voice"`
}

type ApproveRequest struct {
	FinalContent string `json:"final_content"`
	ReviewedBy   string `json:"reviewed_by"`
}

type RejectRequest struct {
	Reason     string `json:"reason"`
	ReviewedBy string `json:"reviewed_by"`
}

type MetricsRequest struct {
	Likes       int `json:"likes"`
	Comments    int `json:"comments"`
	Shares      int `json:"shares"`
	Impressions int `json:"impressions"`
	Clicks      int `json:"clicks"`
	// EngagementRate is derived from the counters when omitted.
	EngagementRate *float64 `json:"engagement_rate"`
}

type PostDetail struct {
	*model.Post
	QualityChecks []model.QualityCheck `json:"quality_checks"`
}
