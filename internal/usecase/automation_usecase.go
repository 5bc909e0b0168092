package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/decision"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/dto"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/quality"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/service"
	"github.com/google/uuid"
)

// AutomationUsecase routes draft posts through the decision engine and
// carries out the resulting status changes and publishing.
type AutomationUsecase struct {
	posts     PostStore
	checks    QualityCheckStore
	logs      PublishLogStore
	engine    Evaluator
	publisher Publisher
	logger    logging.Logger
}

func NewAutomationUsecase(posts PostStore, checks QualityCheckStore, logs PublishLogStore, engine Evaluator, publisher Publisher, logger logging.Logger) *AutomationUsecase {
	return &AutomationUsecase{
		posts:     posts,
		checks:    checks,
		logs:      logs,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

// Evaluate scores ad hoc content without touching any stored post.
func (uc *AutomationUsecase) Evaluate(ctx context.Context, req dto.EvaluateRequest) (*decision.Result, error) {
	return uc.engine.Evaluate(ctx, decision.Input{
		Content:  req.Content,
		Platform: req.Platform,
		ImageRef: req.ImageRef,
		Topic:    req.Topic,
	})
}

// EvaluatePost evaluates a draft post and applies the decision:
// auto_publish approves and publishes it, human_review queues it for a
// reviewer, block rejects it and marks it for regeneration.
func (uc *AutomationUsecase) EvaluatePost(ctx context.Context, id uuid.UUID) (*dto.EvaluatePostResponse, error) {
	post, err := uc.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != model.StatusDraft {
		return nil, fmt.Errorf("%w: only draft posts are evaluated, post is %s", model.ErrInvalidTransition, post.Status)
	}

	result, err := uc.engine.Evaluate(ctx, decision.Input{
		Content:  postText(post),
		Platform: post.Platform,
		ImageRef: post.ImagePath,
		Topic:    post.UserPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate post %s: %w", post.ID, err)
	}

	scores := map[string]any{
		"confidence_score": result.ConfidenceScore,
		"historical_score": result.HistoricalScore,
		"final_score":      result.FinalScore,
		"decision":         string(result.Decision),
		"rationale":        result.Rationale,
	}
	post.ConfidenceScore = result.ConfidenceScore
	post.HistoricalScore = result.HistoricalScore
	post.FinalScore = result.FinalScore
	post.Decision = string(result.Decision)
	post.Rationale = result.Rationale

	resp := &dto.EvaluatePostResponse{Post: post, Decision: result}

	var routed model.PostStatus
	switch result.Decision {
	case decision.AutoPublish:
		routed = model.StatusApproved
	case decision.HumanReview:
		routed = model.StatusReviewNeeded
	case decision.Block:
		routed = model.StatusRejected
	default:
		return nil, fmt.Errorf("unknown decision %q", result.Decision)
	}

	// The draft CAS decides which concurrent evaluation owns the post, so
	// only the winner records its checks.
	if err := uc.transition(ctx, post, routed, scores); err != nil {
		return nil, err
	}
	if err := uc.checks.SaveAll(ctx, qualityCheckRows(post.ID, result.Quality)); err != nil {
		uc.logger.WithError(err).WithField("post_id", post.ID).Error("failed to save quality checks")
	}

	switch result.Decision {
	case decision.AutoPublish:
		publish, err := uc.publish(ctx, post)
		if err != nil {
			return nil, err
		}
		resp.Publish = &publish
	case decision.Block:
		if err := uc.transition(ctx, post, model.StatusNeedsRegeneration, nil); err != nil {
			return nil, err
		}
	}

	uc.logger.WithFields(logging.Fields{
		"post_id":  post.ID,
		"decision": result.Decision,
		"status":   post.Status,
	}).Info("post routed")
	return resp, nil
}

// Publish sends an approved post to the publisher. A post whose last
// attempt failed is approved again first.
func (uc *AutomationUsecase) Publish(ctx context.Context, id uuid.UUID) (*dto.PublishResponse, error) {
	post, err := uc.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status == model.StatusPublishFailed {
		if err := uc.transition(ctx, post, model.StatusApproved, nil); err != nil {
			return nil, err
		}
	}
	if post.Status != model.StatusApproved {
		return nil, fmt.Errorf("%w: only approved posts are published, post is %s", model.ErrInvalidTransition, post.Status)
	}

	result, err := uc.publish(ctx, post)
	if err != nil {
		return nil, err
	}
	return &dto.PublishResponse{Post: post, Publish: result}, nil
}

// publish makes one attempt, logs it and moves the post to published or
// publish_failed. A failed attempt is not retried.
func (uc *AutomationUsecase) publish(ctx context.Context, post *model.Post) (service.PublishResult, error) {
	attempts, err := uc.logs.CountAttempts(ctx, post.ID)
	if err != nil {
		uc.logger.WithError(err).WithField("post_id", post.ID).Warn("count publish attempts failed")
		attempts = 0
	}

	result := uc.publisher.Publish(ctx, post)

	entry := &model.PublishingLog{
		PostID:         post.ID,
		Platform:       post.Platform,
		PlatformPostID: result.PlatformPostID,
		Status:         result.Status,
		ErrorMessage:   result.Error,
		Attempts:       int(attempts) + 1,
	}
	if err := uc.logs.Create(ctx, entry); err != nil {
		uc.logger.WithError(err).WithField("post_id", post.ID).Error("write publishing log failed")
	}

	if !result.OK() {
		if err := uc.transition(ctx, post, model.StatusPublishFailed, nil); err != nil {
			return result, err
		}
		return result, nil
	}

	now := time.Now()
	fields := map[string]any{
		"platform_post_id": result.PlatformPostID,
		"published_at":     now,
	}
	if err := uc.transition(ctx, post, model.StatusPublished, fields); err != nil {
		return result, err
	}
	post.PlatformPostID = result.PlatformPostID
	post.PublishedAt = &now
	return result, nil
}

func (uc *AutomationUsecase) transition(ctx context.Context, post *model.Post, to model.PostStatus, fields map[string]any) error {
	if err := uc.posts.TransitionStatus(ctx, post.ID, post.Status, to, fields); err != nil {
		return err
	}
	post.Status = to
	return nil
}

func qualityCheckRows(postID uuid.UUID, report *quality.Report) []model.QualityCheck {
	if report == nil {
		return nil
	}
	rows := make([]model.QualityCheck, 0, len(report.Checks))
	for _, c := range report.Checks {
		details, err := json.Marshal(map[string]any{
			"notes":   c.Notes,
			"issues":  c.Issues,
			"details": c.Details,
		})
		if err != nil {
			details = []byte("{}")
		}
		rows = append(rows, model.QualityCheck{
			PostID:    postID,
			CheckType: string(c.Name),
			Passed:    c.Passed,
			Score:     c.Score,
			Fallback:  c.Fallback,
			Details:   string(details),
		})
	}
	return rows
}
