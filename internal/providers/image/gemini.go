package image

import (
	"context"

	"nanobanana/internal/domain"
	"nanobanana/internal/providers/genai"
)

type GeminiEditor struct {
	client *genai.Client
}

func NewGeminiEditor(client *genai.Client) *GeminiEditor {
	return &GeminiEditor{client: client}
}

func (g *GeminiEditor) Edit(ctx context.Context, req EditRequest) (domain.UploadedImage, error) {
	return g.client.EditImage(ctx, genai.EditRequest{
		Prompt:            req.Prompt,
		SystemInstruction: req.Instruction,
		Image:             req.Source,
	})
}

var _ Editor = (*GeminiEditor)(nil)
