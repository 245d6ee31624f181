package httpapi

import (
	"net/http"
	"time"

	"nanobanana/internal/http/handlers"
	"nanobanana/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	var origins []string
	perMinute := 0
	if app.Config != nil {
		origins = app.Config.CORSAllowedOrigins
		perMinute = app.Config.RateLimitPerMin
	}

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(origins),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Get("/gallery", app.GalleryContent)
		r.Get("/state", app.State)
		r.Post("/image", app.UploadImage)
		r.Put("/options", app.UpdateOptions)
		r.With(middleware.RateLimit(perMinute, time.Minute)).Post("/generate", app.Generate)
		r.Get("/result", app.DownloadResult)
		r.Get("/events", app.Events)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", app.ListHistory)
			r.Get("/export", app.ExportHistory)
			r.Post("/{id}/reedit", app.ReEdit)
		})
	})

	return r
}
