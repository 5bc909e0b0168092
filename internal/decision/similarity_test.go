package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
)

func TestHistoricalSimilarity(t *testing.T) {
	history := []model.HistoricalPost{
		{Content: "A b X", EngagementRate: 0},
		{Content: "c", EngagementRate: 1.0},
	}
	// (2/4 * 1 + 1/4 * 2) / 2
	assert.InDelta(t, 0.5, HistoricalSimilarity("a B c d", history, 0.5), 1e-12)
}

func TestHistoricalSimilarityNoHistory(t *testing.T) {
	assert.Equal(t, 0.5, HistoricalSimilarity("anything", nil, 0.5))
	assert.Equal(t, 0.5, HistoricalSimilarity("anything", []model.HistoricalPost{}, 0.5))
}

func TestHistoricalSimilarityClamped(t *testing.T) {
	history := []model.HistoricalPost{{Content: "same words here", EngagementRate: 3}}
	assert.Equal(t, 1.0, HistoricalSimilarity("same words here", history, 0.5))
}

func TestHistoricalSimilarityNoOverlap(t *testing.T) {
	history := []model.HistoricalPost{{Content: "completely different", EngagementRate: 0.4}}
	assert.Equal(t, 0.0, HistoricalSimilarity("nothing shared", history, 0.5))
}
