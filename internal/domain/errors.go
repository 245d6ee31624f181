package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingImage         = errors.New("missing image")
	ErrPromptTooShort       = errors.New("prompt too short")
	ErrSizeLimitExceeded    = errors.New("size limit exceeded")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrUnknownStyle         = errors.New("unknown style")
	ErrUnknownResolution    = errors.New("unknown resolution")
	ErrInvalidImageData     = errors.New("invalid image data")
	ErrReadImage            = errors.New("read image")
	ErrTransport            = errors.New("transport failure")
	ErrNoImageInResponse    = errors.New("image data not found in response")
	ErrGenerationFailed     = errors.New("generation failed")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrPersistence          = errors.New("persistence failure")
	ErrHistoryItemNotFound  = errors.New("history item not found")
)

// GenerationFailedError is returned once every attempt has failed. Only the
// error of the final attempt is retained.
type GenerationFailedError struct {
	Attempts int
	Last     error
}

func (e *GenerationFailedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("generation failed after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *GenerationFailedError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrGenerationFailed}
	}
	return []error{ErrGenerationFailed, e.Last}
}

// LastMessage is the message of the final attempt error, suitable for users.
func (e *GenerationFailedError) LastMessage() string {
	if e.Last == nil {
		return "unknown error"
	}
	return e.Last.Error()
}

// IsValidation reports whether err was rejected locally before any network call.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrMissingImage),
		errors.Is(err, ErrPromptTooShort),
		errors.Is(err, ErrSizeLimitExceeded),
		errors.Is(err, ErrUnsupportedMediaType),
		errors.Is(err, ErrUnknownStyle),
		errors.Is(err, ErrUnknownResolution),
		errors.Is(err, ErrInvalidImageData):
		return true
	default:
		return false
	}
}
