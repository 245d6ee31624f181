package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"

	// MaxUploadBytes is the largest base image accepted for editing.
	MaxUploadBytes = 5 * 1024 * 1024
)

// UploadedImage is an image carried inline together with its media type. It
// renders as a data URI for display and splits into mime/payload for the wire.
type UploadedImage struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// IsZero reports whether no image is present.
func (img UploadedImage) IsZero() bool {
	return len(img.Data) == 0
}

// Base64 returns the standard base64 encoding of the payload.
func (img UploadedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURI renders the image as data:<mime>;base64,<payload>.
func (img UploadedImage) DataURI() string {
	if img.IsZero() {
		return ""
	}
	mime := img.MIMEType
	if mime == "" {
		mime = MIMETypeJPEG
	}
	return "data:" + mime + ";base64," + img.Base64()
}

// Clone returns a copy that shares no memory with img.
func (img UploadedImage) Clone() UploadedImage {
	out := img
	if img.Data != nil {
		out.Data = append([]byte(nil), img.Data...)
	}
	return out
}

// ParseDataURI decomposes a data URI into media type and raw bytes. A header
// without a media type falls back to image/jpeg.
func ParseDataURI(uri string) (UploadedImage, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(uri), ",")
	if !ok || payload == "" {
		return UploadedImage{}, fmt.Errorf("%w: missing payload", ErrInvalidImageData)
	}
	if !strings.HasPrefix(header, "data:") {
		return UploadedImage{}, fmt.Errorf("%w: missing data scheme", ErrInvalidImageData)
	}
	mime := MIMETypeJPEG
	meta := strings.TrimPrefix(header, "data:")
	if idx := strings.Index(meta, ";"); idx > 0 {
		mime = meta[:idx]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return UploadedImage{}, fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}
	return UploadedImage{MIMEType: mime, Data: data}, nil
}
