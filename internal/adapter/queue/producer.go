package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/plastinin/pdftext/internal/config"
)

// Типы задач
const (
	TypeDocumentExtraction = "document:extraction"

	QueueExtraction = "extraction"
)

// DocumentExtractionPayload данные задачи на извлечение текста
type DocumentExtractionPayload struct {
	JobID string `json:"job_id"`
}

// JobProducer отправляет задачи в очередь
type JobProducer struct {
	client   *asynq.Client
	maxRetry int
}

// NewJobProducer создаёт новый экземпляр JobProducer
func NewJobProducer(cfg config.RedisConfig, maxRetry int) *JobProducer {
	client := asynq.NewClient(redisOpt(cfg))

	return &JobProducer{client: client, maxRetry: maxRetry}
}

// NewExtractionTask собирает задачу asynq для job
func NewExtractionTask(jobID uuid.UUID, maxRetry int) (*asynq.Task, error) {
	payload, err := json.Marshal(DocumentExtractionPayload{
		JobID: jobID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return asynq.NewTask(TypeDocumentExtraction, payload,
		asynq.MaxRetry(maxRetry),
		asynq.Queue(QueueExtraction),
		// Один job в очереди не больше одного раза
		asynq.TaskID(jobID.String()),
	), nil
}

// Enqueue добавляет задачу в очередь
func (p *JobProducer) Enqueue(ctx context.Context, jobID uuid.UUID) error {
	task, err := NewExtractionTask(jobID, p.maxRetry)
	if err != nil {
		return err
	}

	if _, err := p.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	return nil
}

// Close закрывает соединение
func (p *JobProducer) Close() error {
	return p.client.Close()
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
