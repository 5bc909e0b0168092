package prompt

import "fmt"

func Appropriateness(platform, content string) string {
	return fmt.Sprintf(`
Review this %[1]s post for content appropriateness.

Post: %[2]s

Check for:
1. Offensive language or slurs
2. Controversial political statements
3. Misinformation or unverified claims
4. Brand safety issues
5. Potential legal issues

Return ONLY a JSON object with this structure:
{
  "passed": true/false,
  "score": 0.0-1.0,
  "issues": ["list of any issues found"],
  "recommendation": "brief recommendation"
}
`, platform, content)
}

func BrandAlignment(platform, content, guidelines string) string {
	return fmt.Sprintf(`
Review this %[1]s post for brand alignment.

Post: %[2]s

Brand Guidelines:
%[3]s

Evaluate if the post:
1. Matches the brand voice
2. Reflects brand values
3. Avoids prohibited language/tone
4. Would resonate with target audience

Return ONLY a JSON object:
{
  "passed": true/false,
  "score": 0.0-1.0,
  "alignment_notes": "brief notes",
  "recommendation": "brief recommendation"
}
`, platform, content, guidelines)
}

func Grammar(platform, content string) string {
	return fmt.Sprintf(`
Review this %[1]s post for grammar and spelling errors. Hashtags and emojis are not errors.

Text: %[2]s

Return ONLY a JSON object:
{
  "passed": true/false,
  "score": 0.0-1.0,
  "errors": ["list of errors found"],
  "severity": "none/minor/major"
}
`, platform, content)
}

func Engagement(platform, content string) string {
	return fmt.Sprintf(`
Predict the engagement potential of this %[1]s post.

Post: %[2]s

Consider:
1. Hook/opening strength
2. Value provided to reader
3. Call-to-action clarity
4. Emotional appeal
5. Relevance to platform audience

Return ONLY a JSON object:
{
  "score": 0.0-1.0,
  "prediction": "low/medium/high",
  "strengths": ["list strengths"],
  "improvements": ["suggested improvements"]
}
`, platform, content)
}
