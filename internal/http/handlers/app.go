package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"nanobanana/internal/domain"
	"nanobanana/internal/editor"
	"nanobanana/internal/gallery"
	"nanobanana/internal/infra"
	"nanobanana/internal/middleware"
)

type App struct {
	Config  *infra.Config
	Editor  *editor.Editor
	Gallery gallery.Content
	Logger  infra.Logger
	Hub     *Hub
}

func NewApp(cfg *infra.Config, ed *editor.Editor, logger infra.Logger) *App {
	hub := NewHub(logger)
	ed.Subscribe(hub.BroadcastState)
	return &App{
		Config:  cfg,
		Editor:  ed,
		Gallery: gallery.Default(),
		Logger:  logger,
		Hub:     hub,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: message}})
}

// fail maps a domain error onto a status code and the error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	ev := a.Logger.Warn()
	if status >= http.StatusInternalServerError {
		ev = a.Logger.Error()
	}
	ev.Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Int("status", status).
		Msg("request failed")
	a.error(w, status, code, editor.MessageFor(err))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrGenerationInProgress):
		return http.StatusConflict, "generation_in_progress"
	case errors.Is(err, domain.ErrSizeLimitExceeded):
		return http.StatusRequestEntityTooLarge, "size_limit_exceeded"
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, "unsupported_media_type"
	case domain.IsValidation(err):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, domain.ErrReadImage):
		return http.StatusBadRequest, "unreadable_image"
	case errors.Is(err, domain.ErrHistoryItemNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway, "generation_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
