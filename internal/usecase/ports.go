package usecase

import (
	"context"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/decision"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/repository"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/service"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	List(ctx context.Context, filter repository.PostFilter, page, pageSize int) ([]model.Post, int64, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.PostStatus, fields map[string]any) error
	SearchSimilarPublished(ctx context.Context, embedding pgvector.Vector, platform string, topK int) ([]model.Post, error)
}

type QualityCheckStore interface {
	SaveAll(ctx context.Context, checks []model.QualityCheck) error
	FindByPost(ctx context.Context, postID uuid.UUID) ([]model.QualityCheck, error)
}

type PublishLogStore interface {
	Create(ctx context.Context, entry *model.PublishingLog) error
	CountAttempts(ctx context.Context, postID uuid.UUID) (int64, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, f *model.PostFeedback) error
}

type MetricsStore interface {
	Create(ctx context.Context, m *model.PerformanceMetric) error
	Summary(ctx context.Context) ([]model.AnalyticsSummary, error)
}

type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
}

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type ImageUploader interface {
	UploadImage(ctx context.Context, postID, platform, localPath string) (string, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, in decision.Input) (*decision.Result, error)
}

type Publisher interface {
	Publish(ctx context.Context, post *model.Post) service.PublishResult
}
