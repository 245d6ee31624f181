package image

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"time"

	"nanobanana/internal/domain"
)

// Synthetic renders a deterministic, style-tinted copy of the source image
// locally. It stands in for the remote model when no API key is configured.
type Synthetic struct {
	latency time.Duration
}

func NewSynthetic(latency time.Duration) *Synthetic {
	return &Synthetic{latency: latency}
}

func (s *Synthetic) Edit(ctx context.Context, req EditRequest) (domain.UploadedImage, error) {
	if req.Source.IsZero() {
		return domain.UploadedImage{}, domain.ErrMissingImage
	}
	src, _, err := stdimage.Decode(bytes.NewReader(req.Source.Data))
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("%w: synthetic decode: %v", domain.ErrNoImageInResponse, err)
	}

	side := req.Resolution.Side()
	out := stdimage.NewRGBA(stdimage.Rect(0, 0, side, side))
	scaleNearest(out, src)
	draw.Draw(out, out.Bounds(), &stdimage.Uniform{styleTint(req.Style)}, stdimage.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return domain.UploadedImage{}, fmt.Errorf("%w: synthetic encode: %v", domain.ErrNoImageInResponse, err)
	}

	select {
	case <-time.After(s.latency):
	case <-ctx.Done():
		return domain.UploadedImage{}, ctx.Err()
	}
	return domain.UploadedImage{MIMEType: domain.MIMETypePNG, Data: buf.Bytes(), Width: side, Height: side}, nil
}

func scaleNearest(dst *stdimage.RGBA, src stdimage.Image) {
	sb := src.Bounds()
	db := dst.Bounds()
	if sb.Empty() {
		return
	}
	for y := 0; y < db.Dy(); y++ {
		sy := sb.Min.Y + y*sb.Dy()/db.Dy()
		for x := 0; x < db.Dx(); x++ {
			sx := sb.Min.X + x*sb.Dx()/db.Dx()
			dst.Set(x, y, src.At(sx, sy))
		}
	}
}

// styleTint is a translucent overlay per style; alpha stays low so the
// source remains recognisable.
func styleTint(style domain.StyleTag) color.RGBA {
	switch style {
	case domain.StylePixar:
		return color.RGBA{R: 60, G: 40, B: 0, A: 60}
	case domain.StyleComicArt:
		return color.RGBA{R: 10, G: 20, B: 60, A: 70}
	case domain.StyleAnimation:
		return color.RGBA{R: 0, G: 50, B: 25, A: 60}
	case domain.StyleVintage:
		return color.RGBA{R: 70, G: 50, B: 20, A: 90}
	default:
		return color.RGBA{A: 0}
	}
}

var _ Editor = (*Synthetic)(nil)
