package brand

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
)

const defaultPrimaryVoice = "professional and engaging"

type Guidelines struct {
	BrandVoice          VoiceSpec                     `yaml:"brand_voice"`
	Values              []string                      `yaml:"values"`
	PlatformPreferences map[string]PlatformPreference `yaml:"platform_preferences"`
	HashtagStrategy     HashtagStrategy               `yaml:"hashtag_strategy"`
	CallToAction        CTAPreferences                `yaml:"call_to_action"`
	Avoid               map[string][]string           `yaml:"avoid"`
}

type VoiceSpec struct {
	Primary      string   `yaml:"primary"`
	ToneKeywords []string `yaml:"tone_keywords"`
}

type PlatformPreference struct {
	Focus string `yaml:"focus"`
	Style string `yaml:"style"`
}

type HashtagStrategy struct {
	PreferredCategories []string `yaml:"preferred_categories"`
	Avoid               []string `yaml:"avoid"`
}

type CTAPreferences struct {
	Preferred []string `yaml:"preferred"`
	Avoid     []string `yaml:"avoid"`
}

// Voice answers brand questions for prompts and checks.
type Voice struct {
	guidelines Guidelines
}

// Load reads brand guidelines from a YAML file whose top level is a mapping.
func Load(path string) (*Voice, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("brand guidelines not found at %s: %w", path, err)
	}
	g, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("load brand guidelines %s: %w", path, err)
	}
	return &Voice{guidelines: g}, nil
}

func Parse(raw []byte) (Guidelines, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Guidelines{}, fmt.Errorf("invalid YAML in brand guidelines: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return Guidelines{}, fmt.Errorf("brand guidelines must be a YAML mapping")
	}
	var g Guidelines
	if err := doc.Content[0].Decode(&g); err != nil {
		return Guidelines{}, fmt.Errorf("decode brand guidelines: %w", err)
	}
	return g, nil
}

func New(g Guidelines) *Voice {
	return &Voice{guidelines: g}
}

func (v *Voice) Guidelines() Guidelines {
	return v.guidelines
}

// VoiceFor combines the primary voice, tone keywords and, when a platform is
// given, its style and focus into one description.
func (v *Voice) VoiceFor(platform string) string {
	primary := v.guidelines.BrandVoice.Primary
	if primary == "" {
		primary = defaultPrimaryVoice
	}

	var b strings.Builder
	b.WriteString(primary)
	if kw := v.guidelines.BrandVoice.ToneKeywords; len(kw) > 0 {
		b.WriteString(", emphasizing ")
		b.WriteString(strings.Join(kw, ", "))
	}
	if platform != "" {
		if pref, ok := v.guidelines.PlatformPreferences[platform]; ok {
			fmt.Fprintf(&b, ". For %s: %s, focusing on %s.", platform, pref.Style, pref.Focus)
		}
	}
	return b.String()
}

func (v *Voice) HashtagStrategy() HashtagStrategy {
	return v.guidelines.HashtagStrategy
}

func (v *Voice) CTAPreferences() CTAPreferences {
	return v.guidelines.CallToAction
}

func (v *Voice) Values() []string {
	return v.guidelines.Values
}

func (v *Voice) Avoidances() map[string][]string {
	return v.guidelines.Avoid
}

func (v *Voice) PlatformFocus(platform string) string {
	return v.guidelines.PlatformPreferences[platform].Focus
}

func (v *Voice) PlatformStyle(platform string) string {
	return v.guidelines.PlatformPreferences[platform].Style
}

// Summary renders the guidelines as plain text for the brand alignment check.
func (v *Voice) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Voice: %s\n", v.VoiceFor(""))
	if len(v.guidelines.Values) > 0 {
		fmt.Fprintf(&b, "Values: %s\n", strings.Join(v.guidelines.Values, ", "))
	}
	if len(v.guidelines.CallToAction.Avoid) > 0 {
		fmt.Fprintf(&b, "Avoid in calls to action: %s\n", strings.Join(v.guidelines.CallToAction.Avoid, ", "))
	}
	for _, key := range sortedKeys(v.guidelines.Avoid) {
		fmt.Fprintf(&b, "Avoid (%s): %s\n", key, strings.Join(v.guidelines.Avoid[key], ", "))
	}
	return strings.TrimSpace(b.String())
}

var hashtagStopWords = map[string]bool{"the": true, "and": true, "for": true, "with": true}

var industryHashtags = []string{"Innovation", "Technology", "Business", "Growth"}

// FallbackHashtags derives hashtags from the topic words without an LLM.
// count <= 0 means the platform maximum.
func (v *Voice) FallbackHashtags(platform, topic string, count int) []string {
	if count <= 0 {
		count = 3
		if spec, err := config.LookupPlatform(platform); err == nil {
			count = spec.MaxHashtags
		}
	}

	seen := make(map[string]bool)
	var tags []string
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, word := range strings.Fields(strings.ReplaceAll(strings.ToLower(topic), "-", " ")) {
		if len(word) > 3 && !hashtagStopWords[word] {
			add(strings.ToUpper(word[:1]) + word[1:])
		}
	}
	for _, category := range v.guidelines.HashtagStrategy.PreferredCategories {
		if category == "industry-specific" {
			for _, tag := range industryHashtags {
				add(tag)
			}
		}
	}

	if len(tags) > count {
		tags = tags[:count]
	}
	return tags
}

// FormatHashtags renders tags as "#A #B", tolerating a leading '#'.
func FormatHashtags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimLeft(strings.TrimSpace(tag), "#")
		if tag == "" {
			continue
		}
		out = append(out, "#"+tag)
	}
	return strings.Join(out, " ")
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
