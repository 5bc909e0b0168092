package prompt

import (
	"fmt"
	"strings"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
)

// Platform post templates take, in order: topic, brand voice, additional context.
var platformTemplates = map[string]string{
	"linkedin": `
Create a professional LinkedIn post about: %[1]s

BRAND VOICE & TONE:
Your writing must embody this brand voice: %[2]s
Primary tone: Professional, thought-leadership style
Approach: Insightful, industry-focused, value-driven

CONTENT REQUIREMENTS:
- Length: 150-300 words (optimal for LinkedIn engagement)
- Structure: Start with a compelling hook or thought-provoking question
- Substance: Provide genuine industry insights or clear value proposition
- Formatting: Use line breaks every 2-3 sentences for scannability
- Call-to-action: End with a strong, professional CTA

WHAT TO AVOID:
- Overly casual language or slang
- Aggressive sales pitch
- Generic buzzwords without substance
- Emoji overuse (1-2 strategic emojis max)
- Hashtags (they are added separately)

Additional context: %[3]s

Format: Plain text with natural paragraph breaks. Do not use markdown formatting.
`,
	"twitter": `
Create an engaging Twitter/X post about: %[1]s

BRAND VOICE & TONE:
Your writing must embody this brand voice: %[2]s
Primary tone: Conversational, punchy, authentic
Approach: Quick-hitting, attention-grabbing, shareable

CONTENT REQUIREMENTS:
- STRICT CHARACTER LIMIT: keep it under 250 characters, hashtags are appended later
- Hook: Lead with your strongest point in the first 10 words
- Value: Deliver immediate value or spark curiosity
- Emojis: Use 1-2 relevant emojis strategically (optional)

WHAT TO AVOID:
- Thread-style multi-tweets (single tweet only)
- Hashtags (they are added separately)
- Overly promotional language

Additional context: %[3]s

Format: Single paragraph. Count characters carefully.
`,
	"facebook": `
Create a community-focused Facebook post about: %[1]s

BRAND VOICE & TONE:
Your writing must embody this brand voice: %[2]s
Primary tone: Friendly, conversational, relatable
Approach: Community-building, authentic storytelling, engaging

CONTENT REQUIREMENTS:
- Length: 100-200 words (optimal for Facebook feed)
- Opening: Start with a relatable statement or question
- Engagement: Explicitly encourage comments, shares, or reactions
- Call-to-action: Include a clear engagement prompt
- Formatting: Short paragraphs with natural breaks

WHAT TO AVOID:
- Corporate jargon
- Link-heavy posts
- Clickbait tactics
- Hashtags (they are added separately)

Additional context: %[3]s

Format: Conversational paragraphs with natural breaks. Write like you're talking to friends.
`,
	"nextdoor": `
Create a neighborhood-friendly Nextdoor post about: %[1]s

BRAND VOICE & TONE:
Your writing must embody this brand voice: %[2]s
Primary tone: Neighborly, helpful, locally-focused
Approach: Community service, genuine helpfulness, local value

CONTENT REQUIREMENTS:
- Length: 100-250 words
- Opening: Greet neighbors warmly (e.g., "Hi neighbors!")
- Local focus: Explicitly connect to neighborhood benefit or local community
- Call-to-action: Gentle invitation, not an aggressive sales pitch

WHAT TO AVOID:
- Aggressive sales language or pressure tactics
- Corporate/marketing speak
- Hashtags (they are added separately)

Additional context: %[3]s

Format: Friendly, approachable paragraphs. Write like a helpful neighbor, not a marketer.
`,
}

func PlatformPost(platform, topic, brandVoice, context string) (string, error) {
	tmpl, ok := platformTemplates[platform]
	if !ok {
		return "", fmt.Errorf("%w: no template for %q", config.ErrUnknownPlatform, platform)
	}
	if strings.TrimSpace(context) == "" {
		context = "None"
	}
	return fmt.Sprintf(tmpl, topic, brandVoice, context), nil
}

func Shorten(platform, content, brandVoice string, charLimit int) string {
	return fmt.Sprintf(`
The following content is too long for %[1]s (limit: %[3]d characters).

Original content:
%[2]s

Please rewrite this to be under %[3]d characters while maintaining the key message,
tone (%[4]s), and call-to-action. Keep it engaging and complete.
`, platform, content, charLimit, brandVoice)
}

func Hashtags(platform, content, topic string, count int, preferred, avoid []string) string {
	return fmt.Sprintf(`
Generate %[1]d highly relevant and effective hashtags for this %[2]s post.

Post content:
%[3]s

Original topic: %[4]s

Requirements:
- Generate EXACTLY %[1]d hashtags
- Make them relevant to the content and %[2]s audience
- Preferred categories: %[5]s
- Avoid: %[6]s
- Use proper capitalization (e.g., SocialMedia not socialmedia)
- No spaces in hashtags

Return ONLY the hashtags as a comma-separated list, without the # symbol.
Example format: Innovation, TechTrends, BusinessGrowth
`, count, platform, content, topic, strings.Join(preferred, ", "), strings.Join(avoid, ", "))
}

func ImagePrompt(platform, content, topic string) string {
	return fmt.Sprintf(`
Based on this social media post, create a detailed image generation prompt.

Post content:
%[1]s

Original topic: %[2]s

Create a prompt for an image that:
- Visually represents the key concept
- Is appropriate for %[3]s
- Is eye-catching and professional
- Avoids text/words in the image
- Uses vibrant, engaging colors

Return only the image generation prompt, nothing else.
`, content, topic, platform)
}

// ImageSpec appends the platform dimensions to an image prompt.
func ImageSpec(imagePrompt string, spec config.PlatformSpec) string {
	return fmt.Sprintf("%s\n\nImage specifications: %dx%dpx, high quality, professional, suitable for %s social media.",
		imagePrompt, spec.ImageWidth, spec.ImageHeight, spec.Name)
}

// Examples renders high-performing posts as style references.
func Examples(contents []string) string {
	if len(contents) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Examples of past posts that performed well (match their style, do not copy them):\n")
	for i, c := range contents {
		fmt.Fprintf(&b, "Example %d:\n%s\n\n", i+1, strings.TrimSpace(c))
	}
	return strings.TrimSpace(b.String())
}
