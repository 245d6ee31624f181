// Package gallery carries the static marketing content served next to the
// editor.
package gallery

import (
	"strings"

	"nanobanana/internal/domain"
)

// ResultFilename is the suggested name when downloading a result.
const ResultFilename = "nanobanana_ai_edit.png"

// ResultFilenameFor keeps the download extension in line with the result's
// MIME type. Anything but JPEG keeps the PNG name.
func ResultFilenameFor(mime string) string {
	if mime == domain.MIMETypeJPEG {
		return strings.TrimSuffix(ResultFilename, ".png") + ".jpg"
	}
	return ResultFilename
}

type Example struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

type Section struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Hero struct {
	Headline     string `json:"headline"`
	Tagline      string `json:"tagline"`
	CallToAction string `json:"callToAction"`
}

// Content is everything the landing page needs besides the editor state.
type Content struct {
	Hero          Hero                `json:"hero"`
	Sections      []Section           `json:"sections"`
	Styles        []domain.StyleTag   `json:"styles"`
	DefaultStyle  domain.StyleTag     `json:"defaultStyle"`
	Resolutions   []domain.Resolution `json:"resolutions"`
	Examples      []Example           `json:"examples"`
	Testimonials  []Testimonial       `json:"testimonials"`
	Disclaimer    string              `json:"disclaimer"`
	MaxUploadMB   int                 `json:"maxUploadMb"`
	HistoryLimit  int                 `json:"historyLimit"`
	PromptMinimum int                 `json:"promptMinimum"`
}

var examples = []Example{
	{Before: "https://placehold.co/300x300/F97316/ffffff?text=Original+Portrait", After: "https://placehold.co/300x300/FACC15/000000?text=Pixar+Style+AI"},
	{Before: "https://placehold.co/300x300/1E3A8A/ffffff?text=Original+Landscape", After: "https://placehold.co/300x300/3B82F6/ffffff?text=Comic+Art+AI"},
	{Before: "https://placehold.co/300x300/4B5563/ffffff?text=Original+Object", After: "https://placehold.co/300x300/6B7280/ffffff?text=Vintage+Film+AI"},
	{Before: "https://placehold.co/300x300/059669/ffffff?text=Original+Street", After: "https://placehold.co/300x300/10B981/000000?text=Animation+AI"},
}

var testimonials = []Testimonial{
	{Quote: "Mind-blowing! My cat's now a Pixar star. Effortless photo editing done right.", Author: "@CreativeCat"},
	{Quote: "The consistency boost works wonders. High fidelity edits without losing the original vibe.", Author: "@DigitalDruid"},
	{Quote: "Intuitive UI and the banana theme is genius. I generated my entire album cover in 5 minutes.", Author: "@PixelPioneer"},
}

var sections = []Section{
	{ID: "hero", Label: "Home"},
	{ID: "editor", Label: "Editor"},
	{ID: "gallery", Label: "Gallery"},
}

const disclaimer = "Disclaimer: NanoBananaPi is not affiliated with, endorsed by, or associated with Google in any way. " +
	"The 'Google Nano Banana AI API' referenced here is a fictional integration created for demonstration and entertainment purposes only."

// Default returns a fresh copy of the static content.
func Default() Content {
	return Content{
		Hero: Hero{
			Headline:     "Transform Your Photos with the Power of Bananas!",
			Tagline:      "NanoBananaPi: AI Photo Editing, Banana-Style. Describe your vision in words, add objects, swap scenes, or go Pixar-crazy. Instant magic awaits.",
			CallToAction: "Start Editing",
		},
		Sections:      append([]Section(nil), sections...),
		Styles:        append([]domain.StyleTag(nil), domain.Styles...),
		DefaultStyle:  domain.DefaultStyle,
		Resolutions:   append([]domain.Resolution(nil), domain.Resolutions...),
		Examples:      append([]Example(nil), examples...),
		Testimonials:  append([]Testimonial(nil), testimonials...),
		Disclaimer:    disclaimer,
		MaxUploadMB:   domain.MaxUploadBytes / (1024 * 1024),
		HistoryLimit:  domain.HistoryLimit,
		PromptMinimum: domain.MinPromptLength,
	}
}
