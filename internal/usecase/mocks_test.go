package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/mock"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/decision"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/repository"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/service"
)

type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) Create(ctx context.Context, post *model.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostStore) Update(ctx context.Context, post *model.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostStore) List(ctx context.Context, filter repository.PostFilter, page, pageSize int) ([]model.Post, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]model.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.PostStatus, fields map[string]any) error {
	return m.Called(ctx, id, from, to, fields).Error(0)
}

func (m *MockPostStore) SearchSimilarPublished(ctx context.Context, embedding pgvector.Vector, platform string, topK int) ([]model.Post, error) {
	args := m.Called(ctx, embedding, platform, topK)
	return args.Get(0).([]model.Post), args.Error(1)
}

type MockQualityCheckStore struct {
	mock.Mock
}

func (m *MockQualityCheckStore) SaveAll(ctx context.Context, checks []model.QualityCheck) error {
	return m.Called(ctx, checks).Error(0)
}

func (m *MockQualityCheckStore) FindByPost(ctx context.Context, postID uuid.UUID) ([]model.QualityCheck, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]model.QualityCheck), args.Error(1)
}

type MockPublishLogStore struct {
	mock.Mock
}

func (m *MockPublishLogStore) Create(ctx context.Context, entry *model.PublishingLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockPublishLogStore) CountAttempts(ctx context.Context, postID uuid.UUID) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

type MockFeedbackStore struct {
	mock.Mock
}

func (m *MockFeedbackStore) Create(ctx context.Context, f *model.PostFeedback) error {
	return m.Called(ctx, f).Error(0)
}

type MockMetricsStore struct {
	mock.Mock
}

func (m *MockMetricsStore) Create(ctx context.Context, metric *model.PerformanceMetric) error {
	return m.Called(ctx, metric).Error(0)
}

func (m *MockMetricsStore) Summary(ctx context.Context) ([]model.AnalyticsSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.AnalyticsSummary), args.Error(1)
}

type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, in decision.Input) (*decision.Result, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*decision.Result), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, post *model.Post) service.PublishResult {
	return m.Called(ctx, post).Get(0).(service.PublishResult)
}

// textFunc answers generation prompts from a test closure.
type textFunc func(prompt string) (string, error)

func (f textFunc) Generate(_ context.Context, _ string, prompt string, _ int) (string, error) {
	return f(prompt)
}

type imageFunc func(prompt, aspectRatio string) ([]byte, error)

func (f imageFunc) GenerateImage(_ context.Context, prompt, aspectRatio string) ([]byte, error) {
	return f(prompt, aspectRatio)
}
