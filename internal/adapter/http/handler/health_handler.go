package handler

import (
	"net/http"

	"github.com/plastinin/pdftext/internal/adapter/http/dto"
	"go.uber.org/zap"
)

const greeting = "Welcome, the PDF text extraction API is up and running!"

// HealthHandler обработчик служебных запросов
type HealthHandler struct {
	logger *zap.Logger
}

// NewHealthHandler создаёт новый HealthHandler
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// HealthResponse ответ health check
type HealthResponse struct {
	Status string `json:"status"`
}

// Root отдаёт статическое приветствие
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, dto.MessageResponse{Message: greeting})
}

// Check проверяет состояние сервиса
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, HealthResponse{Status: "ok"})
}
