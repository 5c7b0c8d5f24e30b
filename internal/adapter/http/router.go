package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/plastinin/pdftext/internal/adapter/http/handler"
	httpmiddleware "github.com/plastinin/pdftext/internal/adapter/http/middleware"
	"github.com/plastinin/pdftext/internal/config"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает HTTP роутер.
// jobHandler может быть nil, тогда API задач не регистрируется.
func NewRouter(
	extractHandler *handler.ExtractHandler,
	jobHandler *handler.JobHandler,
	healthHandler *handler.HealthHandler,
	corsCfg config.CORSConfig,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.NewLoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.NewCORSMiddleware(corsCfg))
	r.Use(middleware.Compress(5))

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Check)

	r.Post("/extract-text", extractHandler.ExtractText)
	r.Post("/extract-text-base64", extractHandler.ExtractTextBase64)

	if jobHandler != nil {
		r.Route("/api/v1/jobs", func(r chi.Router) {
			r.Post("/", jobHandler.Create)
			r.Get("/", jobHandler.List)
			r.Get("/{id}", jobHandler.GetByID)
			r.Delete("/{id}", jobHandler.Delete)
		})
	}

	return r
}
