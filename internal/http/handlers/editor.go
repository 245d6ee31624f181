package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"nanobanana/internal/domain"
	"nanobanana/internal/editor"
	"nanobanana/internal/gallery"
)

const uploadField = "file"

func (a *App) State(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Editor.Snapshot())
}

// UploadImage streams the multipart field "file" into the editor. The body is
// capped a little above the image limit so the ingest check sees the overflow.
func (a *App) UploadImage(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		a.error(w, http.StatusBadRequest, "bad_request", "expected multipart/form-data with a file field")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxUploadBytes+1<<20)
	mr, err := r.MultipartReader()
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			a.error(w, http.StatusBadRequest, "bad_request", "file field is required")
			return
		}
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
			return
		}
		if part.FormName() != uploadField {
			_ = part.Close()
			continue
		}
		err = a.Editor.Upload(r.Context(), part.FileName(), -1, part)
		_ = part.Close()
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.json(w, http.StatusOK, a.Editor.Snapshot())
		return
	}
}

func (a *App) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	var req editor.OptionsUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Editor.Apply(req); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, a.Editor.Snapshot())
}

// Generate blocks until the workflow finishes, including its backoff waits.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Editor.Generate(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, a.Editor.Snapshot())
}

func (a *App) DownloadResult(w http.ResponseWriter, r *http.Request) {
	img, ok := a.Editor.Result()
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "no generated image yet")
		return
	}
	w.Header().Set("Content-Type", img.MIMEType)
	w.Header().Set("Content-Disposition", "attachment; filename="+gallery.ResultFilenameFor(img.MIMEType))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}
