package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/plastinin/pdftext/internal/domain"
	"go.uber.org/zap"
)

// ProcessingUseCase обработка задач извлечения воркером
type ProcessingUseCase struct {
	jobRepo     JobRepository
	fileStorage FileStorage
	pipeline    *ExtractionUseCase
	logger      *zap.Logger
}

// NewProcessingUseCase создаёт новый экземпляр ProcessingUseCase
func NewProcessingUseCase(
	jobRepo JobRepository,
	fileStorage FileStorage,
	pipeline *ExtractionUseCase,
	logger *zap.Logger,
) *ProcessingUseCase {
	return &ProcessingUseCase{
		jobRepo:     jobRepo,
		fileStorage: fileStorage,
		pipeline:    pipeline,
		logger:      logger,
	}
}

// ProcessJob извлекает текст документа задачи.
// Ошибка пайплайна фиксируется в задаче и возвращается как
// *domain.ExtractionError: повтор её не исправит. Ошибки хранилищ
// возвращаются как есть, задача остаётся в processing до повтора.
func (uc *ProcessingUseCase) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	uc.logger.Info("Starting job processing",
		zap.String("job_id", jobID.String()),
	)

	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	if job.Status.IsFinal() {
		uc.logger.Warn("Job already in final status, skipping",
			zap.String("job_id", jobID.String()),
			zap.String("status", job.Status.String()),
		)
		return nil
	}

	// Повторная доставка после сбоя застаёт задачу уже в processing
	if job.Status == domain.JobStatusPending {
		if err := job.MarkProcessing(); err != nil {
			return fmt.Errorf("failed to mark job as processing: %w", err)
		}
		if err := uc.jobRepo.Update(ctx, job); err != nil {
			return fmt.Errorf("failed to update job status: %w", err)
		}
	}

	data, err := uc.download(ctx, job.FileKey)
	if err != nil {
		return err
	}

	result, err := uc.pipeline.Extract(ctx, job.Payload(data))
	if err != nil {
		uc.markJobFailed(ctx, job, err.Error())
		return err
	}

	if err := job.MarkCompleted(result); err != nil {
		return fmt.Errorf("failed to mark job as completed: %w", err)
	}
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	uc.logger.Info("Job completed successfully",
		zap.String("job_id", jobID.String()),
		zap.Int("pages", result.Pages),
		zap.Int("text_length", len(result.Text)),
	)

	return nil
}

// FailJob помечает задачу неудачной после исчерпания повторов
func (uc *ProcessingUseCase) FailJob(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if job.Status.IsFinal() {
		return nil
	}
	uc.markJobFailed(ctx, job, errMsg)
	return nil
}

// download читает документ из S3, не больше лимита пайплайна плюс один байт
func (uc *ProcessingUseCase) download(ctx context.Context, fileKey string) ([]byte, error) {
	reader, err := uc.fileStorage.Download(ctx, fileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download document: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, uc.pipeline.MaxPayloadSize()+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	uc.logger.Debug("Document downloaded from storage",
		zap.String("file_key", fileKey),
		zap.Int("size", len(data)),
	)

	return data, nil
}

// markJobFailed помечает задачу как неудачную
func (uc *ProcessingUseCase) markJobFailed(ctx context.Context, job *domain.Job, errMsg string) {
	uc.logger.Error("Job processing failed",
		zap.String("job_id", job.ID.String()),
		zap.String("error", errMsg),
	)

	if err := job.MarkFailed(errMsg); err != nil {
		uc.logger.Error("Failed to mark job as failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		return
	}

	if err := uc.jobRepo.Update(ctx, job); err != nil {
		uc.logger.Error("Failed to update failed job",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}
