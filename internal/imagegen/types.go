package imagegen

import (
	"time"

	"nanobanana/internal/domain"
)

// Input is everything the user controls for one generation.
type Input struct {
	Image       *domain.UploadedImage
	Prompt      string
	Style       domain.StyleTag
	Consistency int
	Resolution  domain.Resolution
}

// Attempt describes the outcome of one call to the remote editor.
type Attempt struct {
	Number      int
	MaxAttempts int
	Err         error
	// NextDelay is the wait before the next attempt; zero on success or on
	// the final attempt.
	NextDelay time.Duration
}
