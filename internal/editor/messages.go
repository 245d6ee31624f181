package editor

import (
	"errors"

	"nanobanana/internal/domain"
)

// MessageFor renders err as the message shown to the user.
func MessageFor(err error) string {
	var failed *domain.GenerationFailedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &failed):
		return MsgGenerationFailedAt + failed.LastMessage()
	case errors.Is(err, domain.ErrSizeLimitExceeded):
		return MsgUploadTooLarge
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return MsgUploadUnsupported
	case errors.Is(err, domain.ErrReadImage):
		return MsgUploadReadError
	case errors.Is(err, domain.ErrMissingImage):
		return MsgMissingImage
	case errors.Is(err, domain.ErrPromptTooShort):
		return MsgPromptTooShort
	case errors.Is(err, domain.ErrGenerationInProgress):
		return "A generation is already running. Please wait."
	case errors.Is(err, domain.ErrHistoryItemNotFound):
		return "History item not found."
	default:
		return err.Error()
	}
}
