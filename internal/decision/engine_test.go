package decision

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/quality"
)

type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) TopPerforming(ctx context.Context, platform string, limit int) ([]model.HistoricalPost, error) {
	args := m.Called(ctx, platform, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoricalPost), args.Error(1)
}

func (m *MockHistoryStore) CountPublished(ctx context.Context, platform string) (int64, error) {
	args := m.Called(ctx, platform)
	return args.Get(0).(int64), args.Error(1)
}

type staticGuide string

func (g staticGuide) Summary() string { return string(g) }

var goodReplies = map[string]string{
	"content appropriateness": `{"passed": true, "score": 1.0}`,
	"brand alignment":         `{"passed": true, "score": 0.8}`,
	"grammar and spelling":    `{"passed": true, "score": 0.9}`,
	"engagement potential":    `{"score": 0.6}`,
}

func cannedJudge(replies map[string]string) quality.JudgeFunc {
	return func(_ context.Context, p string) (string, error) {
		for phrase, reply := range replies {
			if strings.Contains(p, phrase) {
				return reply, nil
			}
		}
		return "not json", nil
	}
}

func newTestEngine(judge quality.Judge, history HistoryStore, policy config.AutomationPolicy) *Engine {
	checker := quality.NewChecker(judge, staticGuide("Voice: friendly"), policy, logging.Discard())
	return NewEngine(checker, history, policy, logging.Discard())
}

func TestEvaluateColdStartIsNeutral(t *testing.T) {
	history := new(MockHistoryStore)
	history.On("TopPerforming", mock.Anything, "twitter", 20).Return([]model.HistoricalPost{}, nil)
	history.On("CountPublished", mock.Anything, "twitter").Return(int64(0), nil)

	e := newTestEngine(cannedJudge(goodReplies), history, config.DefaultAutomationPolicy())
	res, err := e.Evaluate(context.Background(), Input{Content: "Buy now!!!", Platform: "twitter", Topic: "sale"})
	require.NoError(t, err)

	assert.Equal(t, 0.5, res.HistoricalScore)
	assert.InDelta(t, 0.872, res.ConfidenceScore, 1e-9)
	assert.Equal(t, 0.9, res.QualityWeight)
	// 0.872*0.9 + 0.5*0.1
	assert.InDelta(t, 0.8348, res.FinalScore, 1e-9)
	assert.Equal(t, HumanReview, res.Decision)
	assert.Equal(t, "Decision human_review with final score 0.83; all quality checks passed.", res.Rationale)
	assert.False(t, res.HistoryFallback)
	history.AssertExpectations(t)
}

func TestEvaluateWeightFloorWithHistory(t *testing.T) {
	history := new(MockHistoryStore)
	history.On("TopPerforming", mock.Anything, "twitter", 20).Return([]model.HistoricalPost{
		{Content: "Buy now!!! Limited offer", EngagementRate: 0.5},
	}, nil)
	history.On("CountPublished", mock.Anything, "twitter").Return(int64(45), nil)

	e := newTestEngine(cannedJudge(goodReplies), history, config.DefaultAutomationPolicy())
	res, err := e.Evaluate(context.Background(), Input{Content: "Buy now!!!", Platform: "twitter"})
	require.NoError(t, err)

	assert.Equal(t, 0.6, res.QualityWeight)
	assert.InDelta(t, 0.4, res.HistoricalWeight, 1e-12)
	assert.Equal(t, 1.0, res.HistoricalScore)
	// 0.872*0.6 + 1.0*0.4
	assert.InDelta(t, 0.9232, res.FinalScore, 1e-9)
	assert.Equal(t, AutoPublish, res.Decision)
}

func TestEvaluateHistoryUnavailable(t *testing.T) {
	storeErr := errors.New("connection refused")

	history := new(MockHistoryStore)
	history.On("TopPerforming", mock.Anything, "linkedin", 20).Return(nil, storeErr)

	e := newTestEngine(cannedJudge(goodReplies), history, config.DefaultAutomationPolicy())
	res, err := e.Evaluate(context.Background(), Input{Content: "Hello network", Platform: "linkedin"})
	require.NoError(t, err)
	assert.True(t, res.HistoryFallback)
	assert.Equal(t, 0.5, res.HistoricalScore)
	assert.Equal(t, int64(0), res.PublishedCount)

	strict := config.DefaultAutomationPolicy()
	strict.StrictHistory = true
	e = newTestEngine(cannedJudge(goodReplies), history, strict)
	_, err = e.Evaluate(context.Background(), Input{Content: "Hello network", Platform: "linkedin"})
	assert.True(t, errors.Is(err, storeErr))
}

func TestEvaluateCountUnavailableStillScoresSimilarity(t *testing.T) {
	history := new(MockHistoryStore)
	history.On("TopPerforming", mock.Anything, "facebook", 20).Return([]model.HistoricalPost{
		{Content: "hello friends", EngagementRate: 0},
	}, nil)
	history.On("CountPublished", mock.Anything, "facebook").Return(int64(0), errors.New("timeout"))

	e := newTestEngine(cannedJudge(goodReplies), history, config.DefaultAutomationPolicy())
	res, err := e.Evaluate(context.Background(), Input{Content: "hello world", Platform: "facebook"})
	require.NoError(t, err)
	assert.True(t, res.HistoryFallback)
	assert.Equal(t, 0.5, res.HistoricalScore)
	assert.Equal(t, 0.9, res.QualityWeight)
}

func TestEvaluateMalformedJudgmentStillDecides(t *testing.T) {
	history := new(MockHistoryStore)
	history.On("TopPerforming", mock.Anything, "twitter", 20).Return([]model.HistoricalPost{}, nil)
	history.On("CountPublished", mock.Anything, "twitter").Return(int64(0), nil)

	judge := quality.JudgeFunc(func(context.Context, string) (string, error) {
		return "<html>502 Bad Gateway</html>", nil
	})
	e := newTestEngine(judge, history, config.DefaultAutomationPolicy())

	res, err := e.Evaluate(context.Background(), Input{Content: "Buy now!!!", Platform: "twitter"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Decision)
	assert.NotEmpty(t, res.Rationale)
}

func TestEvaluateBlockListsFailedChecks(t *testing.T) {
	history := new(MockHistoryStore)
	history.On("TopPerforming", mock.Anything, "twitter", 20).Return([]model.HistoricalPost{}, nil)
	history.On("CountPublished", mock.Anything, "twitter").Return(int64(0), nil)

	replies := map[string]string{
		"content appropriateness": `{"passed": false, "score": 0.1, "issues": ["offensive"]}`,
		"brand alignment":         `{"passed": false, "score": 0.2}`,
		"grammar and spelling":    `{"passed": true, "score": 0.9}`,
		"engagement potential":    `{"score": 0.3}`,
	}
	e := newTestEngine(cannedJudge(replies), history, config.DefaultAutomationPolicy())

	res, err := e.Evaluate(context.Background(), Input{
		Content:  strings.Repeat("angry words ", 40),
		Platform: "twitter",
		ImageRef: "/does/not/exist.png",
	})
	require.NoError(t, err)
	assert.Equal(t, Block, res.Decision)
	assert.Contains(t, res.Rationale, "Decision block with final score")
	assert.Contains(t, res.Rationale, "failed checks: appropriateness, brand_alignment, platform_fit, engagement, image.")
}

func TestEvaluateIsDeterministic(t *testing.T) {
	history := new(MockHistoryStore)
	history.On("TopPerforming", mock.Anything, "linkedin", 20).Return([]model.HistoricalPost{
		{Content: "We are hiring engineers", EngagementRate: 0.12},
		{Content: "Our team shipped a new feature", EngagementRate: 0.08},
	}, nil)
	history.On("CountPublished", mock.Anything, "linkedin").Return(int64(12), nil)

	e := newTestEngine(cannedJudge(goodReplies), history, config.DefaultAutomationPolicy())
	in := Input{Content: "Our team is hiring engineers #hiring", Platform: "linkedin", Topic: "hiring"}

	a, err := e.Evaluate(context.Background(), in)
	require.NoError(t, err)
	b, err := e.Evaluate(context.Background(), in)
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestEvaluateRejectsInvalidInput(t *testing.T) {
	history := new(MockHistoryStore)
	e := newTestEngine(cannedJudge(goodReplies), history, config.DefaultAutomationPolicy())

	_, err := e.Evaluate(context.Background(), Input{Content: "", Platform: "twitter"})
	assert.True(t, errors.Is(err, quality.ErrEmptyContent))
	history.AssertNotCalled(t, "TopPerforming", mock.Anything, mock.Anything, mock.Anything)
}

func TestClassifyThresholds(t *testing.T) {
	p := config.DefaultAutomationPolicy()
	assert.Equal(t, AutoPublish, Classify(0.85, p))
	assert.Equal(t, AutoPublish, Classify(1.0, p))
	assert.Equal(t, HumanReview, Classify(0.8499, p))
	assert.Equal(t, HumanReview, Classify(0.60, p))
	assert.Equal(t, Block, Classify(0.5999, p))
	assert.Equal(t, Block, Classify(0, p))

	custom := p
	custom.AutoPublishThreshold = 0.95
	assert.Equal(t, HumanReview, Classify(0.9, custom))
}

func TestQualityWeight(t *testing.T) {
	p := config.DefaultAutomationPolicy()
	assert.Equal(t, 0.9, QualityWeight(0, p))
	assert.Equal(t, 0.8, QualityWeight(10, p))
	assert.Equal(t, 0.6, QualityWeight(30, p))
	assert.Equal(t, 0.6, QualityWeight(31, p))
	assert.Equal(t, 0.6, QualityWeight(1000, p))
}

func TestRationale(t *testing.T) {
	assert.Equal(t,
		"Decision auto_publish with final score 0.91; all quality checks passed.",
		Rationale(AutoPublish, 0.9061, nil))
	assert.Equal(t,
		"Decision block with final score 0.42; failed checks: grammar, image.",
		Rationale(Block, 0.42, []quality.CheckName{quality.CheckGrammar, quality.CheckImage}))
}
