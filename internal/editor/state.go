package editor

import (
	"encoding/json"

	"nanobanana/internal/domain"
	"nanobanana/internal/notify"
)

// State is everything the editor screen shows at one instant.
type State struct {
	UploadedImage domain.UploadedImage
	Prompt        string
	Style         domain.StyleTag
	Consistency   int
	Resolution    domain.Resolution
	Result        domain.UploadedImage
	Loading       bool
	// Attempt is the number of the attempt in flight while Loading.
	Attempt      int
	History      []domain.HistoryItem
	Notification *notify.Notification
}

func initialState() State {
	return State{
		Style:       domain.DefaultStyle,
		Consistency: domain.DefaultConsistency,
		Resolution:  domain.DefaultResolution,
		History:     []domain.HistoryItem{},
	}
}

func (s State) clone() State {
	out := s
	out.UploadedImage = s.UploadedImage.Clone()
	out.Result = s.Result.Clone()
	out.History = append([]domain.HistoryItem(nil), s.History...)
	if out.History == nil {
		out.History = []domain.HistoryItem{}
	}
	if s.Notification != nil {
		n := *s.Notification
		out.Notification = &n
	}
	return out
}

type imageView struct {
	URL      string `json:"url"`
	MIMEType string `json:"mimeType"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Bytes    int    `json:"bytes"`
}

func viewOf(img domain.UploadedImage) *imageView {
	if img.IsZero() {
		return nil
	}
	return &imageView{
		URL:      img.DataURI(),
		MIMEType: img.MIMEType,
		Width:    img.Width,
		Height:   img.Height,
		Bytes:    len(img.Data),
	}
}

// MarshalJSON renders images as data URIs.
func (s State) MarshalJSON() ([]byte, error) {
	history := s.History
	if history == nil {
		history = []domain.HistoryItem{}
	}
	return json.Marshal(struct {
		UploadedImage *imageView           `json:"uploadedImage"`
		Prompt        string               `json:"prompt"`
		Style         domain.StyleTag      `json:"style"`
		Consistency   int                  `json:"consistency"`
		Resolution    domain.Resolution    `json:"resolution"`
		Result        *imageView           `json:"generatedImage"`
		Loading       bool                 `json:"loading"`
		Attempt       int                  `json:"attempt,omitempty"`
		History       []domain.HistoryItem `json:"history"`
		Notification  *notify.Notification `json:"notification"`
	}{
		UploadedImage: viewOf(s.UploadedImage),
		Prompt:        s.Prompt,
		Style:         s.Style,
		Consistency:   s.Consistency,
		Resolution:    s.Resolution,
		Result:        viewOf(s.Result),
		Loading:       s.Loading,
		Attempt:       s.Attempt,
		History:       history,
		Notification:  s.Notification,
	})
}
