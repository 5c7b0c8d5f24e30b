package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/plastinin/pdftext/internal/domain"
)

// TextExtractor интерфейс внешней библиотеки извлечения текста из PDF
type TextExtractor interface {
	// ExtractText возвращает сырой текст всех страниц и их количество
	ExtractText(pdfData []byte) (text string, pages int, err error)
}

// JobRepository интерфейс для работы с хранилищем задач
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.JobFilter, pagination domain.Pagination) (*domain.JobListResult, error)
}

// FileStorage интерфейс для работы с файловым хранилищем (S3)
type FileStorage interface {
	Upload(ctx context.Context, fileName string, contentType string, reader io.Reader, size int64) (fileKey string, err error)
	Download(ctx context.Context, fileKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileKey string) error
	GetURL(ctx context.Context, fileKey string) (string, error)
}

// JobQueue интерфейс для работы с очередью задач
type JobQueue interface {
	Enqueue(ctx context.Context, jobID uuid.UUID) error
}
