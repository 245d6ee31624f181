package image

import (
	"context"

	"nanobanana/internal/domain"
)

// EditRequest is the provider-neutral form of one edit attempt.
type EditRequest struct {
	Prompt      string
	Instruction string
	Style       domain.StyleTag
	Resolution  domain.Resolution
	Source      domain.UploadedImage
}

// Editor is the contract implemented by all image providers. Each call is a
// single attempt.
type Editor interface {
	Edit(ctx context.Context, req EditRequest) (domain.UploadedImage, error)
}

// EditorFunc adapts a function to Editor.
type EditorFunc func(ctx context.Context, req EditRequest) (domain.UploadedImage, error)

func (f EditorFunc) Edit(ctx context.Context, req EditRequest) (domain.UploadedImage, error) {
	return f(ctx, req)
}
