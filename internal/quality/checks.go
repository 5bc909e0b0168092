package quality

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"regexp"
	"unicode/utf8"

	_ "golang.org/x/image/webp"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
)

var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

func CountHashtags(content string) int {
	return len(hashtagPattern.FindAllString(content, -1))
}

// StripHashtags keeps the first keep hashtags of content and turns the rest
// into plain words.
func StripHashtags(content string, keep int) string {
	seen := 0
	return hashtagPattern.ReplaceAllStringFunc(content, func(tag string) string {
		seen++
		if seen <= keep {
			return tag
		}
		return tag[1:]
	})
}

// PlatformFit checks the character and hashtag limits of the platform.
// Each satisfied limit contributes half of the score.
func PlatformFit(content string, spec config.PlatformSpec) CheckResult {
	chars := utf8.RuneCountInString(content)
	tags := CountHashtags(content)

	charsOK := chars <= spec.CharLimit
	tagsOK := tags <= spec.MaxHashtags

	score := 0.0
	var issues []string
	if charsOK {
		score += 0.5
	} else {
		issues = append(issues, fmt.Sprintf("exceeds %s character limit (%d > %d)", spec.Name, chars, spec.CharLimit))
	}
	if tagsOK {
		score += 0.5
	} else {
		issues = append(issues, fmt.Sprintf("too many hashtags for %s (%d > %d)", spec.Name, tags, spec.MaxHashtags))
	}

	return CheckResult{
		Name:   CheckPlatformFit,
		Passed: charsOK && tagsOK,
		Score:  score,
		Notes:  fmt.Sprintf("%d/%d characters, %d/%d hashtags", chars, spec.CharLimit, tags, spec.MaxHashtags),
		Issues: issues,
	}
}

// ImageCheck verifies that the image at path decodes and meets the minimum
// dimensions. Missing or corrupt files score 0, undersized images 0.5.
func ImageCheck(path string, minWidth, minHeight int) CheckResult {
	result := CheckResult{Name: CheckImage}

	f, err := os.Open(path)
	if err != nil {
		result.Notes = "image not found"
		result.Issues = []string{fmt.Sprintf("cannot open image: %v", err)}
		return result
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		result.Notes = "image unreadable"
		result.Issues = []string{fmt.Sprintf("cannot decode image: %v", err)}
		return result
	}

	result.Notes = fmt.Sprintf("%s %dx%d", format, cfg.Width, cfg.Height)
	if cfg.Width < minWidth || cfg.Height < minHeight {
		result.Score = 0.5
		result.Issues = []string{fmt.Sprintf("image %dx%d is below the %dx%d minimum", cfg.Width, cfg.Height, minWidth, minHeight)}
		return result
	}

	result.Passed = true
	result.Score = 1.0
	return result
}
