package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/dto"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/repository"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/util"
	"github.com/google/uuid"
)

var ErrNotPublished = errors.New("post is not published")

type ReviewUsecase struct {
	posts    PostStore
	checks   QualityCheckStore
	feedback FeedbackStore
	metrics  MetricsStore
	logger   logging.Logger
}

func NewReviewUsecase(posts PostStore, checks QualityCheckStore, feedback FeedbackStore, metrics MetricsStore, logger logging.Logger) *ReviewUsecase {
	return &ReviewUsecase{posts: posts, checks: checks, feedback: feedback, metrics: metrics, logger: logger}
}

func (uc *ReviewUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PostDetail, error) {
	post, err := uc.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	checks, err := uc.checks.FindByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load quality checks: %w", err)
	}
	return &dto.PostDetail{Post: post, QualityChecks: checks}, nil
}

func (uc *ReviewUsecase) List(ctx context.Context, filter repository.PostFilter, page, pageSize int) ([]model.Post, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, util.NewFormError("invalid filter", map[string]string{"status": "unknown status"})
	}
	return uc.posts.List(ctx, filter, page, pageSize)
}

// Approve approves a draft or queued post. A non-empty finalContent that
// differs from the current text replaces it and is recorded as an edit.
func (uc *ReviewUsecase) Approve(ctx context.Context, id uuid.UUID, req dto.ApproveRequest) (*model.Post, error) {
	post, err := uc.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	feedback := &model.PostFeedback{PostID: post.ID, FeedbackType: model.FeedbackApproval, CreatedBy: req.ReviewedBy}

	edited := strings.TrimSpace(req.FinalContent)
	if edited != "" && edited != post.FinalContent {
		edits, err := json.Marshal(map[string]string{"before": post.FinalContent, "after": edited})
		if err != nil {
			return nil, err
		}
		fields["final_content"] = edited
		fields["human_edits"] = string(edits)
		fields["char_count"] = utf8.RuneCountInString(edited)
		feedback.FeedbackType = model.FeedbackEdit
		feedback.EditDetails = string(edits)
	}

	if err := uc.posts.TransitionStatus(ctx, post.ID, post.Status, model.StatusApproved, fields); err != nil {
		return nil, err
	}
	post.Status = model.StatusApproved
	if v, ok := fields["final_content"].(string); ok {
		post.FinalContent = v
		post.HumanEdits = fields["human_edits"].(string)
		post.CharCount = fields["char_count"].(int)
	}

	uc.recordFeedback(ctx, feedback)
	return post, nil
}

func (uc *ReviewUsecase) Reject(ctx context.Context, id uuid.UUID, req dto.RejectRequest) (*model.Post, error) {
	post, err := uc.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.posts.TransitionStatus(ctx, post.ID, post.Status, model.StatusRejected, nil); err != nil {
		return nil, err
	}
	post.Status = model.StatusRejected

	uc.recordFeedback(ctx, &model.PostFeedback{
		PostID:          post.ID,
		FeedbackType:    model.FeedbackRejection,
		RejectionReason: req.Reason,
		CreatedBy:       req.ReviewedBy,
	})
	return post, nil
}

// RecordMetrics stores engagement counters of a published post. The
// engagement rate defaults to interactions over impressions.
func (uc *ReviewUsecase) RecordMetrics(ctx context.Context, id uuid.UUID, req dto.MetricsRequest) (*model.PerformanceMetric, error) {
	post, err := uc.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != model.StatusPublished {
		return nil, fmt.Errorf("%w: post is %s", ErrNotPublished, post.Status)
	}

	rate := EngagementRate(req.Likes, req.Comments, req.Shares, req.Impressions)
	if req.EngagementRate != nil {
		rate = *req.EngagementRate
	}

	m := &model.PerformanceMetric{
		PostID:         post.ID,
		Platform:       post.Platform,
		Likes:          req.Likes,
		Comments:       req.Comments,
		Shares:         req.Shares,
		Impressions:    req.Impressions,
		Clicks:         req.Clicks,
		EngagementRate: rate,
	}
	if err := uc.metrics.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("save metrics: %w", err)
	}
	return m, nil
}

func (uc *ReviewUsecase) Analytics(ctx context.Context) ([]model.AnalyticsSummary, error) {
	return uc.metrics.Summary(ctx)
}

func EngagementRate(likes, comments, shares, impressions int) float64 {
	if impressions <= 0 {
		return 0
	}
	return float64(likes+comments+shares) / float64(impressions)
}

func (uc *ReviewUsecase) recordFeedback(ctx context.Context, f *model.PostFeedback) {
	if f.EditDetails == "" {
		f.EditDetails = "{}"
	}
	if err := uc.feedback.Create(ctx, f); err != nil {
		uc.logger.WithError(err).WithField("post_id", f.PostID).Error("save feedback failed")
	}
}
