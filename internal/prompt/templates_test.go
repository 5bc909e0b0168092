package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
)

func TestPlatformPost(t *testing.T) {
	for _, platform := range config.Platforms() {
		p, err := PlatformPost(platform, "Our new feature", "warm and helpful", "")
		require.NoError(t, err, platform)
		assert.Contains(t, p, "Our new feature")
		assert.Contains(t, p, "warm and helpful")
		assert.Contains(t, p, "Additional context: None")
		assert.NotContains(t, p, "%!", "unformatted verb in %s template", platform)
	}

	_, err := PlatformPost("myspace", "topic", "voice", "")
	assert.True(t, errors.Is(err, config.ErrUnknownPlatform))
}

func TestQualityPromptsAskForJSON(t *testing.T) {
	prompts := []string{
		Appropriateness("twitter", "hello"),
		BrandAlignment("twitter", "hello", "Voice: friendly"),
		Grammar("twitter", "hello"),
		Engagement("twitter", "hello"),
	}
	for _, p := range prompts {
		assert.Contains(t, p, `"score": 0.0-1.0`)
		assert.NotContains(t, p, "%!")
	}
}

func TestShortenAndHashtags(t *testing.T) {
	s := Shorten("twitter", "long text", "punchy", 280)
	assert.Contains(t, s, "limit: 280 characters")
	assert.Contains(t, s, "under 280 characters")
	assert.Contains(t, s, "tone (punchy)")

	h := Hashtags("linkedin", "post", "topic", 5, []string{"industry-specific"}, []string{"political"})
	assert.Contains(t, h, "Generate EXACTLY 5 hashtags")
	assert.Contains(t, h, "Preferred categories: industry-specific")
}

func TestExamples(t *testing.T) {
	assert.Empty(t, Examples(nil))
	out := Examples([]string{"first post", " second post "})
	assert.True(t, strings.HasPrefix(out, "Examples of past posts"))
	assert.Contains(t, out, "Example 2:\nsecond post")
}
