package image

import (
	"time"

	"nanobanana/internal/infra"
	"nanobanana/internal/providers/genai"
)

// SyntheticLatency is the simulated model latency in demo mode.
const SyntheticLatency = 1500 * time.Millisecond

// NewFromConfig returns the Gemini editor, or the synthetic one when no API
// key is configured.
func NewFromConfig(cfg *infra.Config, logger *infra.Logger) (Editor, error) {
	if cfg.DemoMode() {
		l := infra.LoggerOrNop(logger)
		l.Warn().Msg("GEMINI_API_KEY not set, using the synthetic editor")
		return NewSynthetic(SyntheticLatency), nil
	}
	client, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return NewGeminiEditor(client), nil
}
