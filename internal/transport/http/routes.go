package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(RequestLogger)

	r.Get("/health", h.Health)
	r.Get("/", h.ServeUI)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/profiles", h.ListProfiles)
		r.Post("/download", h.StartDownload)

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.ListJobs)
			r.Get("/{id}", h.GetJob)
			r.Post("/{id}/cancel", h.CancelJob)
			r.Post("/{id}/retry", h.RetryJob)
		})

		r.Get("/files", h.ListFiles)
		r.Get("/logs", h.SystemLogs)
		r.Get("/system/status", h.SystemStatus)

		r.Get("/server/status", h.ServerStatus)
		r.Post("/server/start", h.StartServer)
	})

	r.Get("/ws", h.HandleWS)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
