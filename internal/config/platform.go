package config

import (
	"errors"
	"fmt"
)

var ErrUnknownPlatform = errors.New("unknown platform")

type PlatformSpec struct {
	Name          string
	CharLimit     int
	MaxHashtags   int
	ImageWidth    int
	ImageHeight   int
	AspectRatio   string
	OptimalLength string
	Tone          string
}

var platformOrder = []string{"linkedin", "twitter", "facebook", "nextdoor"}

var platformSpecs = map[string]PlatformSpec{
	"linkedin": {
		Name:          "linkedin",
		CharLimit:     3000,
		MaxHashtags:   5,
		ImageWidth:    1200,
		ImageHeight:   627,
		AspectRatio:   "16:9",
		OptimalLength: "150-300 words",
		Tone:          "Professional, insightful",
	},
	"twitter": {
		Name:          "twitter",
		CharLimit:     280,
		MaxHashtags:   2,
		ImageWidth:    1200,
		ImageHeight:   675,
		AspectRatio:   "16:9",
		OptimalLength: "200-270 characters",
		Tone:          "Conversational, punchy",
	},
	"facebook": {
		Name:          "facebook",
		CharLimit:     63206,
		MaxHashtags:   5,
		ImageWidth:    1200,
		ImageHeight:   630,
		AspectRatio:   "16:9",
		OptimalLength: "100-200 words",
		Tone:          "Friendly, engaging",
	},
	"nextdoor": {
		Name:          "nextdoor",
		CharLimit:     5000,
		MaxHashtags:   3,
		ImageWidth:    1200,
		ImageHeight:   900,
		AspectRatio:   "4:3",
		OptimalLength: "100-250 words",
		Tone:          "Neighborly, helpful",
	},
}

// Platforms returns the supported platform keys in display order.
func Platforms() []string {
	out := make([]string, len(platformOrder))
	copy(out, platformOrder)
	return out
}

func LookupPlatform(name string) (PlatformSpec, error) {
	spec, ok := platformSpecs[name]
	if !ok {
		return PlatformSpec{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
	return spec, nil
}
