package dto

import (
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/decision"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/service"
)

type EvaluateRequest struct {
	Content  string `json:"content"`
	Platform string `json:"platform"`
	ImageRef string `json:"image_ref"`
	Topic    string `json:"topic"`
}

// EvaluatePostResponse is the outcome of routing a stored post.
type EvaluatePostResponse struct {
	Post     *model.Post            `json:"post"`
	Decision *decision.Result       `json:"decision"`
	Publish  *service.PublishResult `json:"publish,omitempty"`
}

type PublishResponse struct {
	Post    *model.Post           `json:"post"`
	Publish service.PublishResult `json:"publish"`
}
