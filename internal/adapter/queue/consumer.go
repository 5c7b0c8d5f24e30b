package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/plastinin/pdftext/internal/config"
	"github.com/plastinin/pdftext/internal/domain"
	"go.uber.org/zap"
)

// JobProcessor обработчик задач извлечения
type JobProcessor interface {
	ProcessJob(ctx context.Context, jobID uuid.UUID) error
	FailJob(ctx context.Context, jobID uuid.UUID, errMsg string) error
}

// JobConsumer обрабатывает задачи из очереди
type JobConsumer struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor JobProcessor
	logger    *zap.Logger
}

// NewJobConsumer создаёт новый экземпляр JobConsumer
func NewJobConsumer(
	cfg config.RedisConfig,
	concurrency int,
	processor JobProcessor,
	logger *zap.Logger,
) *JobConsumer {
	server := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			// Извлечение нагружает CPU, воркеров немного
			Concurrency: concurrency,
			Queues: map[string]int{
				QueueExtraction: 10,
				"default":       1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	consumer := &JobConsumer{
		server:    server,
		mux:       asynq.NewServeMux(),
		processor: processor,
		logger:    logger,
	}

	consumer.mux.HandleFunc(TypeDocumentExtraction, consumer.handleDocumentExtraction)

	return consumer
}

// Start запускает обработку задач
func (c *JobConsumer) Start() error {
	c.logger.Info("Starting job consumer")
	return c.server.Start(c.mux)
}

// Stop останавливает обработку задач
func (c *JobConsumer) Stop() {
	c.logger.Info("Stopping job consumer")
	c.server.Stop()
	c.server.Shutdown()
}

// handleDocumentExtraction обрабатывает задачу извлечения текста.
// Ошибка пайплайна не повторяется, после последнего повтора
// остальных ошибок задача помечается неудачной.
func (c *JobConsumer) handleDocumentExtraction(ctx context.Context, t *asynq.Task) error {
	var payload DocumentExtractionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		c.logger.Error("Failed to unmarshal payload",
			zap.Error(err),
			zap.ByteString("payload", t.Payload()),
		)
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		c.logger.Error("Invalid job ID",
			zap.String("job_id", payload.JobID),
			zap.Error(err),
		)
		return fmt.Errorf("invalid job ID: %v: %w", err, asynq.SkipRetry)
	}

	c.logger.Info("Processing document extraction job",
		zap.String("job_id", jobID.String()),
	)

	err = c.processor.ProcessJob(ctx, jobID)
	if err == nil {
		return nil
	}

	var extErr *domain.ExtractionError
	if errors.As(err, &extErr) {
		// Ошибка уже сохранена в задаче
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	c.logger.Error("Failed to process job",
		zap.String("job_id", jobID.String()),
		zap.Error(err),
	)

	if isLastAttempt(ctx) {
		if failErr := c.processor.FailJob(ctx, jobID, err.Error()); failErr != nil {
			c.logger.Error("Failed to mark job as failed",
				zap.String("job_id", jobID.String()),
				zap.Error(failErr),
			)
		}
	}

	return err
}

func isLastAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return false
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return false
	}
	return retried >= maxRetry
}

// asynqLogger адаптер логгера для asynq
type asynqLogger struct {
	logger *zap.SugaredLogger
}

func newAsynqLogger(logger *zap.Logger) *asynqLogger {
	return &asynqLogger{logger: logger.Named("asynq").Sugar()}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug(args...) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info(args...) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn(args...) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error(args...) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal(args...) }
