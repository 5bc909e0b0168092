package decision

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/metrics"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/quality"
)

type Decision string

const (
	AutoPublish Decision = "auto_publish"
	HumanReview Decision = "human_review"
	Block       Decision = "block"
)

// QualityChecker produces the confidence score for a post.
type QualityChecker interface {
	CheckPost(ctx context.Context, content, platform, imageRef string) (*quality.Report, error)
}

// HistoryStore reads the published track record of a platform.
type HistoryStore interface {
	TopPerforming(ctx context.Context, platform string, limit int) ([]model.HistoricalPost, error)
	CountPublished(ctx context.Context, platform string) (int64, error)
}

type Input struct {
	Content  string
	Platform string
	ImageRef string
	Topic    string
}

type Result struct {
	Decision         Decision        `json:"decision"`
	ConfidenceScore  float64         `json:"confidence_score"`
	HistoricalScore  float64         `json:"historical_score"`
	FinalScore       float64         `json:"final_score"`
	QualityWeight    float64         `json:"quality_weight"`
	HistoricalWeight float64         `json:"historical_weight"`
	PublishedCount   int64           `json:"published_count"`
	HistoryFallback  bool            `json:"history_fallback"`
	Rationale        string          `json:"rationale"`
	Quality          *quality.Report `json:"quality"`
}

type Engine struct {
	checker QualityChecker
	history HistoryStore
	policy  config.AutomationPolicy
	logger  logging.Logger
}

func NewEngine(checker QualityChecker, history HistoryStore, policy config.AutomationPolicy, logger logging.Logger) *Engine {
	return &Engine{checker: checker, history: history, policy: policy, logger: logger}
}

// Evaluate scores one post and classifies it. A well-formed post always gets
// a decision; errors are reserved for invalid input and, under a strict
// policy, an unavailable history store.
func (e *Engine) Evaluate(ctx context.Context, in Input) (*Result, error) {
	report, err := e.checker.CheckPost(ctx, in.Content, in.Platform, in.ImageRef)
	if err != nil {
		return nil, fmt.Errorf("quality check: %w", err)
	}

	historical, published, fallback, err := e.historicalScore(ctx, in)
	if err != nil {
		return nil, err
	}

	qw := QualityWeight(published, e.policy)
	hw := 1 - qw
	final := round4(clamp01(report.ConfidenceScore*qw + historical*hw))
	decision := Classify(final, e.policy)

	result := &Result{
		Decision:         decision,
		ConfidenceScore:  report.ConfidenceScore,
		HistoricalScore:  historical,
		FinalScore:       final,
		QualityWeight:    qw,
		HistoricalWeight: hw,
		PublishedCount:   published,
		HistoryFallback:  fallback,
		Rationale:        Rationale(decision, final, report.Failed()),
		Quality:          report,
	}

	metrics.DecisionsTotal.WithLabelValues(in.Platform, string(decision)).Inc()
	metrics.FinalScore.WithLabelValues(in.Platform).Observe(final)
	e.logger.WithFields(logging.Fields{
		"platform":   in.Platform,
		"topic":      in.Topic,
		"confidence": report.ConfidenceScore,
		"historical": historical,
		"final":      final,
		"decision":   decision,
	}).Info("post evaluated")

	return result, nil
}

func (e *Engine) historicalScore(ctx context.Context, in Input) (score float64, published int64, fallback bool, err error) {
	neutral := e.policy.NeutralHistoricalScore

	history, err := e.history.TopPerforming(ctx, in.Platform, e.policy.HistoryLimit)
	if err != nil {
		if e.policy.StrictHistory {
			return 0, 0, false, fmt.Errorf("load historical posts: %w", err)
		}
		metrics.HistoryFallbacksTotal.Inc()
		e.logger.WithError(err).WithField("platform", in.Platform).Warn("history unavailable, using neutral similarity")
		return neutral, 0, true, nil
	}

	published, err = e.history.CountPublished(ctx, in.Platform)
	if err != nil {
		if e.policy.StrictHistory {
			return 0, 0, false, fmt.Errorf("count published posts: %w", err)
		}
		metrics.HistoryFallbacksTotal.Inc()
		e.logger.WithError(err).WithField("platform", in.Platform).Warn("published count unavailable, assuming none")
		published, fallback = 0, true
	}

	return HistoricalSimilarity(in.Content, history, neutral), published, fallback, nil
}

// QualityWeight shifts trust from the quality checks to the historical
// signal as published posts accumulate, never below the policy floor.
func QualityWeight(published int64, policy config.AutomationPolicy) float64 {
	qw := policy.BaseQualityWeight - policy.QualityWeightDecay*float64(published)
	return round4(math.Max(policy.MinQualityWeight, qw))
}

func Classify(final float64, policy config.AutomationPolicy) Decision {
	switch {
	case final >= policy.AutoPublishThreshold:
		return AutoPublish
	case final >= policy.ReviewThreshold:
		return HumanReview
	default:
		return Block
	}
}

// Rationale renders the operator facing explanation of a decision.
func Rationale(decision Decision, final float64, failed []quality.CheckName) string {
	if len(failed) == 0 {
		return fmt.Sprintf("Decision %s with final score %.2f; all quality checks passed.", decision, final)
	}
	names := make([]string, len(failed))
	for i, f := range failed {
		names[i] = string(f)
	}
	return fmt.Sprintf("Decision %s with final score %.2f; failed checks: %s.", decision, final, strings.Join(names, ", "))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
