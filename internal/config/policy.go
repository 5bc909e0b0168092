package config

import (
	"fmt"
	"sync"
)

// CheckWeights holds the contribution of each quality check to the
// confidence score. Skipped checks are renormalized away.
type CheckWeights struct {
	Appropriateness float64
	BrandAlignment  float64
	PlatformFit     float64
	Grammar         float64
	Engagement      float64
	Image           float64
}

// FallbackScores are used when a judgment response cannot be parsed.
type FallbackScores struct {
	Appropriateness float64
	BrandAlignment  float64
	Grammar         float64
	Engagement      float64
}

// AutomationPolicy is passed by value into the quality checker and the
// decision engine so that a running evaluation never observes a change.
type AutomationPolicy struct {
	Weights   CheckWeights
	Fallbacks FallbackScores

	AutoPublishThreshold float64
	ReviewThreshold      float64

	// JudgePassScore decides "passed" for judgments that only return a score.
	JudgePassScore float64

	MinImageWidth  int
	MinImageHeight int

	HistoryLimit           int
	NeutralHistoricalScore float64
	BaseQualityWeight      float64
	QualityWeightDecay     float64
	MinQualityWeight       float64

	// StrictHistory turns a history store failure into an evaluation error
	// instead of falling back to the neutral score.
	StrictHistory bool
}

func DefaultAutomationPolicy() AutomationPolicy {
	return AutomationPolicy{
		Weights: CheckWeights{
			Appropriateness: 0.25,
			BrandAlignment:  0.20,
			PlatformFit:     0.15,
			Grammar:         0.15,
			Engagement:      0.15,
			Image:           0.10,
		},
		Fallbacks: FallbackScores{
			Appropriateness: 0.7,
			BrandAlignment:  0.8,
			Grammar:         0.9,
			Engagement:      0.7,
		},
		AutoPublishThreshold:   0.85,
		ReviewThreshold:        0.60,
		JudgePassScore:         0.6,
		MinImageWidth:          600,
		MinImageHeight:         400,
		HistoryLimit:           20,
		NeutralHistoricalScore: 0.5,
		BaseQualityWeight:      0.9,
		QualityWeightDecay:     0.01,
		MinQualityWeight:       0.6,
	}
}

var (
	automationPolicy     AutomationPolicy
	automationPolicyErr  error
	automationPolicyOnce sync.Once
)

// LoadAutomationPolicy applies environment overrides on top of the defaults.
func LoadAutomationPolicy() (AutomationPolicy, error) {
	automationPolicyOnce.Do(func() {
		p := DefaultAutomationPolicy()
		p.AutoPublishThreshold = getEnvFloat("AUTO_PUBLISH_THRESHOLD", p.AutoPublishThreshold)
		p.ReviewThreshold = getEnvFloat("REVIEW_THRESHOLD", p.ReviewThreshold)
		p.HistoryLimit = getEnvInt("HISTORY_LIMIT", p.HistoryLimit)
		p.MinQualityWeight = getEnvFloat("MIN_QUALITY_WEIGHT", p.MinQualityWeight)
		p.StrictHistory = getEnvBool("STRICT_HISTORY", p.StrictHistory)
		automationPolicy = p
		automationPolicyErr = p.Validate()
	})
	return automationPolicy, automationPolicyErr
}

func (p AutomationPolicy) Validate() error {
	if p.ReviewThreshold < 0 || p.AutoPublishThreshold > 1 || p.ReviewThreshold > p.AutoPublishThreshold {
		return fmt.Errorf("invalid thresholds: review %.2f, auto publish %.2f", p.ReviewThreshold, p.AutoPublishThreshold)
	}
	w := p.Weights
	if w.Appropriateness < 0 || w.BrandAlignment < 0 || w.PlatformFit < 0 || w.Grammar < 0 || w.Engagement < 0 || w.Image < 0 {
		return fmt.Errorf("check weights must not be negative")
	}
	if w.Appropriateness+w.BrandAlignment+w.PlatformFit+w.Grammar+w.Engagement+w.Image <= 0 {
		return fmt.Errorf("check weights must not all be zero")
	}
	if p.MinQualityWeight < 0 || p.MinQualityWeight > 1 || p.BaseQualityWeight > 1 {
		return fmt.Errorf("invalid quality weight bounds: min %.2f, base %.2f", p.MinQualityWeight, p.BaseQualityWeight)
	}
	if p.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive, got %d", p.HistoryLimit)
	}
	return nil
}
