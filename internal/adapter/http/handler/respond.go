package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/plastinin/pdftext/internal/adapter/http/dto"
	"github.com/plastinin/pdftext/internal/domain"
	"go.uber.org/zap"
)

// errInvalidRequest тело запроса не удалось разобрать
var errInvalidRequest = errors.New("invalid request")

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// respondError отправляет ответ с ошибкой
func respondError(w http.ResponseWriter, logger *zap.Logger, status int, errCode string, detail string) {
	respondJSON(w, logger, status, dto.NewErrorResponse(errCode, detail))
}

// respondPipelineError переводит ошибку пайплайна в HTTP ответ.
// Ошибки извлечения логирует ExtractionUseCase.
func respondPipelineError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if errors.Is(err, errInvalidRequest) {
		respondError(w, logger, http.StatusUnprocessableEntity, "invalid_request", err.Error())
		return
	}

	extErr := domain.AsExtractionError(err)
	respondError(w, logger, extErr.StatusCode(), string(extErr.Kind), extErr.Message)
}
