package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ошибки домена
var (
	ErrJobNotFound      = errors.New("job not found")
	ErrInvalidJobStatus = errors.New("invalid job status")
	ErrEmptyFileKey     = errors.New("file key cannot be empty")
	ErrInvalidSource    = errors.New("invalid payload source")
)

// Job асинхронная задача извлечения текста
type Job struct {
	ID          uuid.UUID  `json:"id"`
	Status      JobStatus  `json:"status"`
	FileKey     string     `json:"file_key"` // Ключ документа в S3
	FileName    *string    `json:"file_name,omitempty"`
	Source      Source     `json:"source"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	Text        string     `json:"text,omitempty"`
	Pages       int        `json:"pages"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewJob создаёт новую задачу
func NewJob(fileKey string, payload Payload) (*Job, error) {
	if fileKey == "" {
		return nil, ErrEmptyFileKey
	}
	if !payload.Source.IsValid() {
		return nil, ErrInvalidSource
	}

	now := time.Now()

	return &Job{
		ID:          uuid.New(),
		Status:      JobStatusPending,
		FileKey:     fileKey,
		FileName:    payload.Name,
		Source:      payload.Source,
		ContentType: payload.ContentType,
		Size:        int64(len(payload.Data)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Payload восстанавливает payload задачи из скачанного содержимого
func (j *Job) Payload(data []byte) Payload {
	return Payload{
		Source:      j.Source,
		Data:        data,
		ContentType: j.ContentType,
		Name:        j.FileName,
	}
}

// MarkProcessing переводит задачу в статус "в обработке"
func (j *Job) MarkProcessing() error {
	if j.Status != JobStatusPending {
		return ErrInvalidJobStatus
	}
	j.Status = JobStatusProcessing
	j.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted сохраняет результат извлечения
func (j *Job) MarkCompleted(result *ExtractionResult) error {
	if j.Status != JobStatusProcessing {
		return ErrInvalidJobStatus
	}
	now := time.Now()
	j.Status = JobStatusCompleted
	j.Text = result.Text
	j.Pages = result.Pages
	j.UpdatedAt = now
	j.CompletedAt = &now
	return nil
}

// MarkFailed переводит задачу в статус "ошибка"
func (j *Job) MarkFailed(errMsg string) error {
	if j.Status != JobStatusProcessing && j.Status != JobStatusPending {
		return ErrInvalidJobStatus
	}
	now := time.Now()
	j.Status = JobStatusFailed
	j.Error = errMsg
	j.UpdatedAt = now
	j.CompletedAt = &now
	return nil
}
