// Package ingest validates a user supplied base image and turns it into an
// inline UploadedImage.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"nanobanana/internal/domain"
)

// Ingest reads r fully and returns the embedded image. size is the size the
// caller was told (file header, multipart part); files above the limit are
// rejected before any byte is read.
func Ingest(ctx context.Context, name string, size int64, r io.Reader) (domain.UploadedImage, error) {
	if size > domain.MaxUploadBytes {
		return domain.UploadedImage{}, fmt.Errorf("%w: %d bytes", domain.ErrSizeLimitExceeded, size)
	}
	if err := ctx.Err(); err != nil {
		return domain.UploadedImage{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, domain.MaxUploadBytes+1))
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("%w: %v", domain.ErrReadImage, err)
	}
	if len(data) > domain.MaxUploadBytes {
		return domain.UploadedImage{}, fmt.Errorf("%w: more than %d bytes", domain.ErrSizeLimitExceeded, domain.MaxUploadBytes)
	}
	if len(data) == 0 {
		return domain.UploadedImage{}, fmt.Errorf("%w: empty file", domain.ErrReadImage)
	}

	mime := DetectMIMEType(name, data)
	if mime != domain.MIMETypeJPEG && mime != domain.MIMETypePNG {
		return domain.UploadedImage{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedMediaType, mime)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("%w: decode header: %v", domain.ErrReadImage, err)
	}

	return domain.UploadedImage{
		MIMEType: mime,
		Data:     data,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// WithDimensions fills in Width and Height from the image header.
func WithDimensions(img domain.UploadedImage) (domain.UploadedImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return img, fmt.Errorf("%w: decode header: %v", domain.ErrReadImage, err)
	}
	img.Width, img.Height = cfg.Width, cfg.Height
	return img, nil
}

// IngestFile ingests the image stored at path.
func IngestFile(ctx context.Context, path string) (domain.UploadedImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("%w: %v", domain.ErrReadImage, err)
	}
	if info.IsDir() {
		return domain.UploadedImage{}, fmt.Errorf("%w: %s is a directory", domain.ErrReadImage, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("%w: %v", domain.ErrReadImage, err)
	}
	defer f.Close()
	return Ingest(ctx, filepath.Base(path), info.Size(), f)
}

// DetectMIMEType sniffs the payload and falls back to the file extension when
// the content is not recognised.
func DetectMIMEType(name string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if idx := strings.Index(sniffed, ";"); idx >= 0 {
		sniffed = sniffed[:idx]
	}
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return domain.MIMETypeJPEG
	case ".png":
		return domain.MIMETypePNG
	}
	return sniffed
}
