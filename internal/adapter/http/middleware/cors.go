package middleware

import (
	"net/http"

	"github.com/plastinin/pdftext/internal/config"
	"github.com/rs/cors"
)

// NewCORSMiddleware разрешает браузерным клиентам отправлять документы
func NewCORSMiddleware(cfg config.CORSConfig) func(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         600,
	}).Handler
}
