package usecase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/plastinin/pdftext/internal/domain"
	"go.uber.org/zap"
)

const defaultJobFileName = "document.pdf"

// JobUseCase бизнес-логика асинхронных задач извлечения
type JobUseCase struct {
	jobRepo     JobRepository
	fileStorage FileStorage
	jobQueue    JobQueue
	maxSize     int64
	logger      *zap.Logger
}

// NewJobUseCase создаёт новый экземпляр JobUseCase
func NewJobUseCase(
	jobRepo JobRepository,
	fileStorage FileStorage,
	jobQueue JobQueue,
	maxSize int64,
	logger *zap.Logger,
) *JobUseCase {
	if maxSize <= 0 {
		maxSize = domain.DefaultMaxPayloadSize
	}
	return &JobUseCase{
		jobRepo:     jobRepo,
		fileStorage: fileStorage,
		jobQueue:    jobQueue,
		maxSize:     maxSize,
		logger:      logger,
	}
}

// Create проверяет документ, сохраняет его в S3 и ставит задачу в очередь.
// Проверка та же, что и у синхронного пайплайна.
func (uc *JobUseCase) Create(ctx context.Context, payload domain.Payload) (*domain.Job, error) {
	if err := payload.Validate(uc.maxSize); err != nil {
		return nil, err
	}

	fileName := defaultJobFileName
	if payload.Name != nil && *payload.Name != "" {
		fileName = *payload.Name
	}

	fileKey, err := uc.fileStorage.Upload(ctx, fileName, domain.ContentTypePDF, bytes.NewReader(payload.Data), int64(len(payload.Data)))
	if err != nil {
		uc.logger.Error("Failed to upload document to storage",
			zap.String("file_name", fileName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	job, err := domain.NewJob(fileKey, payload)
	if err != nil {
		uc.removeDocument(ctx, uuid.Nil, fileKey)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	if err := uc.jobRepo.Create(ctx, job); err != nil {
		uc.logger.Error("Failed to save job to database",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		uc.removeDocument(ctx, job.ID, fileKey)
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	if err := uc.jobQueue.Enqueue(ctx, job.ID); err != nil {
		// Задача в pending всегда есть в очереди
		uc.logger.Error("Failed to enqueue job",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		if delErr := uc.jobRepo.Delete(ctx, job.ID); delErr != nil {
			uc.logger.Warn("Failed to delete unqueued job",
				zap.String("job_id", job.ID.String()),
				zap.Error(delErr),
			)
		}
		uc.removeDocument(ctx, job.ID, fileKey)
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	uc.logger.Info("Extraction job created",
		zap.String("job_id", job.ID.String()),
		zap.String("source", job.Source.String()),
		zap.Int64("size", job.Size),
	)

	return job, nil
}

// GetByID возвращает задачу по ID
func (uc *JobUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return uc.jobRepo.GetByID(ctx, id)
}

// DocumentURL возвращает presigned ссылку на исходный документ
func (uc *JobUseCase) DocumentURL(ctx context.Context, job *domain.Job) (string, error) {
	return uc.fileStorage.GetURL(ctx, job.FileKey)
}

// List возвращает список задач
func (uc *JobUseCase) List(ctx context.Context, filter domain.JobFilter, pagination domain.Pagination) (*domain.JobListResult, error) {
	return uc.jobRepo.List(ctx, filter, pagination)
}

// Delete удаляет задачу и сохранённый документ
func (uc *JobUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.fileStorage.Delete(ctx, job.FileKey); err != nil {
		uc.logger.Warn("Failed to delete document from storage",
			zap.String("job_id", id.String()),
			zap.String("file_key", job.FileKey),
			zap.Error(err),
		)
	}

	if err := uc.jobRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	uc.logger.Info("Extraction job deleted",
		zap.String("job_id", id.String()),
	)

	return nil
}

// removeDocument удаляет документ, для которого не удалось создать задачу
func (uc *JobUseCase) removeDocument(ctx context.Context, jobID uuid.UUID, fileKey string) {
	if err := uc.fileStorage.Delete(ctx, fileKey); err != nil {
		uc.logger.Warn("Failed to delete document from storage",
			zap.String("job_id", jobID.String()),
			zap.String("file_key", fileKey),
			zap.Error(err),
		)
	}
}
