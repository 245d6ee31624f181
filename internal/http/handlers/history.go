package handlers

import (
	"net/http"
	"strconv"

	"nanobanana/internal/history"
	"nanobanana/pkg/zip"

	"github.com/go-chi/chi/v5"
)

func (a *App) ListHistory(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.Editor.History()})
}

func (a *App) ReEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "id must be an integer")
		return
	}
	if _, err := a.Editor.ReEdit(id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, a.Editor.Snapshot())
}

func (a *App) ExportHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := history.ExportEntries(a.Editor.History())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	archive, err := zip.Archive(entries)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=nanobanana-history.zip")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
