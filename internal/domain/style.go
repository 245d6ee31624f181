package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StyleTag names one of the fixed rendering styles offered by the editor.
type StyleTag string

const (
	StylePixar     StyleTag = "Pixar"
	StyleComicArt  StyleTag = "Comic Art"
	StyleAnimation StyleTag = "Animation"
	StyleRealistic StyleTag = "Realistic"
	StyleVintage   StyleTag = "Vintage"

	DefaultStyle = StyleRealistic
)

// Styles lists the supported tags in display order.
var Styles = []StyleTag{StylePixar, StyleComicArt, StyleAnimation, StyleRealistic, StyleVintage}

// ParseStyle normalizes free-form input ("comic   art") into a StyleTag.
func ParseStyle(raw string) (StyleTag, error) {
	normalized := cases.Title(language.English).String(strings.Join(strings.Fields(raw), " "))
	for _, s := range Styles {
		if string(s) == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStyle, raw)
}

// Resolution is an output size option. It does not reach the remote model.
type Resolution string

const (
	Resolution512  Resolution = "512x512"
	Resolution1024 Resolution = "1024x1024"
	Resolution1536 Resolution = "1536x1536 (Pro)"

	DefaultResolution = Resolution1024
)

var Resolutions = []Resolution{Resolution512, Resolution1024, Resolution1536}

func ParseResolution(raw string) (Resolution, error) {
	raw = strings.TrimSpace(raw)
	for _, r := range Resolutions {
		if strings.EqualFold(string(r), raw) {
			return r, nil
		}
	}
	// "1536x1536" without the tier suffix is accepted too.
	if strings.EqualFold(raw, "1536x1536") {
		return Resolution1536, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResolution, raw)
}

// Side returns the square edge length in pixels.
func (r Resolution) Side() int {
	switch r {
	case Resolution512:
		return 512
	case Resolution1536:
		return 1536
	default:
		return 1024
	}
}

const (
	DefaultConsistency = 70
	MinPromptLength    = 5
)

// ClampConsistency bounds a consistency percentage to [0,100].
func ClampConsistency(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
