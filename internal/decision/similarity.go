package decision

import (
	"strings"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
)

// wordSet lower-cases text and splits it on whitespace. Punctuation stays
// attached to its word.
func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// HistoricalSimilarity averages, over the given posts, the share of the
// candidate's words that each post contains, weighted by 1 + its engagement
// rate. No posts yields neutral.
func HistoricalSimilarity(content string, history []model.HistoricalPost, neutral float64) float64 {
	if len(history) == 0 {
		return neutral
	}

	candidate := wordSet(content)
	if len(candidate) == 0 {
		return 0
	}

	var total float64
	for _, past := range history {
		pastWords := wordSet(past.Content)
		shared := 0
		for w := range candidate {
			if _, ok := pastWords[w]; ok {
				shared++
			}
		}
		overlap := float64(shared) / float64(len(candidate))
		total += overlap * (1 + past.EngagementRate)
	}

	return clamp01(total / float64(len(history)))
}
