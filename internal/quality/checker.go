package quality

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/metrics"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/prompt"
)

var ErrEmptyContent = errors.New("content is empty")

type CheckName string

const (
	CheckAppropriateness CheckName = "appropriateness"
	CheckBrandAlignment  CheckName = "brand_alignment"
	CheckPlatformFit     CheckName = "platform_fit"
	CheckGrammar         CheckName = "grammar"
	CheckEngagement      CheckName = "engagement"
	CheckImage           CheckName = "image"
)

type Recommendation string

const (
	RecommendAutoPublish Recommendation = "auto_publish"
	RecommendReview      Recommendation = "human_review"
	RecommendRegenerate  Recommendation = "regenerate"
)

type CheckResult struct {
	Name     CheckName      `json:"name"`
	Passed   bool           `json:"passed"`
	Score    float64        `json:"score"`
	Notes    string         `json:"notes,omitempty"`
	Issues   []string       `json:"issues,omitempty"`
	Fallback bool           `json:"fallback,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

type Report struct {
	Platform        string         `json:"platform"`
	Checks          []CheckResult  `json:"checks"`
	ConfidenceScore float64        `json:"confidence_score"`
	Recommendation  Recommendation `json:"recommendation"`
}

// Failed lists the checks that did not pass, in check order.
func (r *Report) Failed() []CheckName {
	var failed []CheckName
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c.Name)
		}
	}
	return failed
}

func (r *Report) Check(name CheckName) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// Judge is the text-judgment collaborator. It returns the raw model reply.
type Judge interface {
	Judge(ctx context.Context, prompt string) (string, error)
}

type JudgeFunc func(ctx context.Context, prompt string) (string, error)

func (f JudgeFunc) Judge(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// BrandGuide supplies the guidelines text for the brand alignment check.
type BrandGuide interface {
	Summary() string
}

type Checker struct {
	judge  Judge
	brand  BrandGuide
	policy config.AutomationPolicy
	logger logging.Logger
}

func NewChecker(judge Judge, brand BrandGuide, policy config.AutomationPolicy, logger logging.Logger) *Checker {
	return &Checker{judge: judge, brand: brand, policy: policy, logger: logger}
}

// CheckPost runs every quality check for one post and aggregates them into a
// confidence score. Judgment failures never abort the run; only invalid
// input is returned as an error.
func (c *Checker) CheckPost(ctx context.Context, content, platform, imageRef string) (*Report, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	spec, err := config.LookupPlatform(platform)
	if err != nil {
		return nil, err
	}

	fb := c.policy.Fallbacks
	checks := []CheckResult{
		c.judged(ctx, CheckAppropriateness, prompt.Appropriateness(platform, content), fb.Appropriateness),
		c.judged(ctx, CheckBrandAlignment, prompt.BrandAlignment(platform, content, c.brand.Summary()), fb.BrandAlignment),
		PlatformFit(content, spec),
		c.judged(ctx, CheckGrammar, prompt.Grammar(platform, content), fb.Grammar),
		c.judged(ctx, CheckEngagement, prompt.Engagement(platform, content), fb.Engagement),
	}
	if imageRef != "" {
		checks = append(checks, ImageCheck(imageRef, c.policy.MinImageWidth, c.policy.MinImageHeight))
	}

	confidence := Aggregate(checks, c.policy.Weights)
	report := &Report{
		Platform:        platform,
		Checks:          checks,
		ConfidenceScore: confidence,
		Recommendation:  Recommend(confidence, c.policy),
	}

	c.logger.WithFields(logging.Fields{
		"platform":       platform,
		"confidence":     confidence,
		"recommendation": report.Recommendation,
		"failed_checks":  report.Failed(),
	}).Info("quality check completed")

	return report, nil
}

func (c *Checker) judged(ctx context.Context, name CheckName, p string, fallback float64) CheckResult {
	var j Judgment
	raw, err := c.judge.Judge(ctx, p)
	if err != nil {
		j = Unparsed{DefaultScore: fallback, Reason: err.Error()}
	} else {
		j = ParseJudgment(raw, fallback, c.policy.JudgePassScore)
	}

	switch v := j.(type) {
	case Parsed:
		return CheckResult{
			Name:    name,
			Passed:  v.Passed,
			Score:   v.Score,
			Notes:   notesFrom(v.Details),
			Issues:  issuesFrom(v.Details),
			Details: v.Details,
		}
	case Unparsed:
		metrics.JudgmentFallbacksTotal.WithLabelValues(string(name)).Inc()
		c.logger.WithFields(logging.Fields{
			"check":  name,
			"reason": v.Reason,
		}).Warn("judgment unusable, using default score")
		return CheckResult{
			Name:     name,
			Passed:   true,
			Score:    clamp01(v.DefaultScore),
			Notes:    "unable to parse",
			Fallback: true,
		}
	default:
		panic(fmt.Sprintf("quality: unexpected judgment %T", j))
	}
}

var noteKeys = []string{"alignment_notes", "recommendation", "prediction", "severity"}

func notesFrom(details map[string]any) string {
	for _, k := range noteKeys {
		if s, ok := details[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func issuesFrom(details map[string]any) []string {
	for _, k := range []string{"issues", "errors"} {
		list, ok := details[k].([]any)
		if !ok {
			continue
		}
		var issues []string
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				issues = append(issues, s)
			}
		}
		return issues
	}
	return nil
}

func weightOf(name CheckName, w config.CheckWeights) float64 {
	switch name {
	case CheckAppropriateness:
		return w.Appropriateness
	case CheckBrandAlignment:
		return w.BrandAlignment
	case CheckPlatformFit:
		return w.PlatformFit
	case CheckGrammar:
		return w.Grammar
	case CheckEngagement:
		return w.Engagement
	case CheckImage:
		return w.Image
	default:
		return 0
	}
}

// Aggregate is the weighted average of the present checks, renormalized over
// their weights and rounded to three decimals.
func Aggregate(checks []CheckResult, weights config.CheckWeights) float64 {
	var sum, total float64
	for _, c := range checks {
		w := weightOf(c.Name, weights)
		sum += clamp01(c.Score) * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return clamp01(math.Round(sum/total*1000) / 1000)
}

func Recommend(confidence float64, policy config.AutomationPolicy) Recommendation {
	switch {
	case confidence >= policy.AutoPublishThreshold:
		return RecommendAutoPublish
	case confidence >= policy.ReviewThreshold:
		return RecommendReview
	default:
		return RecommendRegenerate
	}
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
