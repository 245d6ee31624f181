package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "generating": a.Editor.Busy()}
	if a.Config != nil {
		body["demo_mode"] = a.Config.DemoMode()
		body["history_backend"] = a.Config.HistoryBackend
	}
	a.json(w, http.StatusOK, body)
}

func (a *App) GalleryContent(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Gallery)
}
