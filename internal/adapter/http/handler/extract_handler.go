package handler

import (
	"net/http"

	"github.com/plastinin/pdftext/internal/adapter/http/dto"
	"github.com/plastinin/pdftext/internal/usecase"
	"go.uber.org/zap"
)

// ExtractHandler синхронное извлечение текста из PDF
type ExtractHandler struct {
	pipeline *usecase.ExtractionUseCase
	logger   *zap.Logger
}

// NewExtractHandler создаёт новый ExtractHandler
func NewExtractHandler(pipeline *usecase.ExtractionUseCase, logger *zap.Logger) *ExtractHandler {
	return &ExtractHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// ExtractText извлекает текст из загруженного файла
// POST /extract-text
// Content-Type: multipart/form-data
// - file: PDF документ с типом application/pdf
func (h *ExtractHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	payload, err := readUpload(r, h.pipeline.MaxPayloadSize())
	if err != nil {
		respondPipelineError(w, h.logger, err)
		return
	}

	result, err := h.pipeline.Extract(r.Context(), payload)
	if err != nil {
		respondPipelineError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.ExtractTextFromDomain(result))
}

// ExtractTextBase64 извлекает текст из base64 содержимого
// POST /extract-text-base64
// {"contentBytes": "<base64>", "name": "report.pdf"}
func (h *ExtractHandler) ExtractTextBase64(w http.ResponseWriter, r *http.Request) {
	input, err := readBase64Request(w, r, h.pipeline.MaxPayloadSize())
	if err != nil {
		respondPipelineError(w, h.logger, err)
		return
	}

	result, err := h.pipeline.ExtractBase64(r.Context(), input)
	if err != nil {
		respondPipelineError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.ExtractBase64FromDomain(result))
}
