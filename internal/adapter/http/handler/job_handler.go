package handler

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/plastinin/pdftext/internal/adapter/http/dto"
	"github.com/plastinin/pdftext/internal/domain"
	"github.com/plastinin/pdftext/internal/usecase"
	"go.uber.org/zap"
)

// JobHandler обработчик HTTP запросов для асинхронных задач
type JobHandler struct {
	jobUC   *usecase.JobUseCase
	maxSize int64
	logger  *zap.Logger
}

// NewJobHandler создаёт новый JobHandler
func NewJobHandler(jobUC *usecase.JobUseCase, maxSize int64, logger *zap.Logger) *JobHandler {
	if maxSize <= 0 {
		maxSize = domain.DefaultMaxPayloadSize
	}
	return &JobHandler{
		jobUC:   jobUC,
		maxSize: maxSize,
		logger:  logger,
	}
}

// Create создаёт задачу извлечения
// POST /api/v1/jobs
// Content-Type: multipart/form-data (поле file) или application/json
// (contentBytes, name), как у синхронных эндпоинтов
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := h.readPayload(w, r)
	if err != nil {
		respondPipelineError(w, h.logger, err)
		return
	}

	job, err := h.jobUC.Create(r.Context(), payload)
	if err != nil {
		var extErr *domain.ExtractionError
		if errors.As(err, &extErr) {
			respondPipelineError(w, h.logger, err)
			return
		}
		h.logger.Error("Failed to create job", zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "Failed to create job")
		return
	}

	respondJSON(w, h.logger, http.StatusAccepted, dto.JobFromDomain(job))
}

func (h *JobHandler) readPayload(w http.ResponseWriter, r *http.Request) (domain.Payload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return readUpload(r, h.maxSize)
	}

	input, err := readBase64Request(w, r, h.maxSize)
	if err != nil {
		return domain.Payload{}, err
	}
	return domain.DecodeBase64Payload(input.ContentBytes, input.Name, h.maxSize)
}

// GetByID возвращает задачу по ID
// GET /api/v1/jobs/{id}
func (h *JobHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	job, err := h.jobUC.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			respondError(w, h.logger, http.StatusNotFound, "not_found", "Job not found")
			return
		}
		h.logger.Error("Failed to get job", zap.String("job_id", id.String()), zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "Failed to get job")
		return
	}

	resp := dto.JobFromDomain(job)
	if url, err := h.jobUC.DocumentURL(r.Context(), job); err != nil {
		h.logger.Warn("Failed to presign document URL", zap.String("job_id", id.String()), zap.Error(err))
	} else {
		resp.DocumentURL = url
	}

	respondJSON(w, h.logger, http.StatusOK, resp)
}

// List возвращает список задач
// GET /api/v1/jobs?page=1&page_size=20&status=completed
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	pagination := domain.NewPagination(page, pageSize)

	filter := domain.JobFilter{}
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := domain.JobStatus(statusStr)
		if !status.IsValid() {
			respondError(w, h.logger, http.StatusBadRequest, "invalid_status", "Unknown job status")
			return
		}
		filter.Status = &status
	}

	result, err := h.jobUC.List(r.Context(), filter, pagination)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "Failed to list jobs")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.JobListFromDomain(result))
}

// Delete удаляет задачу
// DELETE /api/v1/jobs/{id}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.jobUC.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			respondError(w, h.logger, http.StatusNotFound, "not_found", "Job not found")
			return
		}
		h.logger.Error("Failed to delete job", zap.String("job_id", id.String()), zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "Failed to delete job")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *JobHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_id", "Invalid job ID format")
		return uuid.Nil, false
	}
	return id, true
}
