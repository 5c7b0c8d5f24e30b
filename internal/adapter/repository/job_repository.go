package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plastinin/pdftext/internal/domain"
)

const jobColumns = `id, status, file_key, file_name, source, content_type, size, text, pages, error, created_at, updated_at, completed_at`

// JobRepository реализация репозитория задач для PostgreSQL
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository создаёт новый экземпляр JobRepository
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// Create сохраняет новую задачу
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO extraction_jobs (id, status, file_key, file_name, source, content_type, size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Status,
		job.FileKey,
		job.FileName,
		job.Source,
		job.ContentType,
		job.Size,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	return nil
}

// GetByID возвращает задачу по ID
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM extraction_jobs WHERE id = $1`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// Update сохраняет статус и результат задачи
func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE extraction_jobs
		SET status = $2, text = $3, pages = $4, error = $5, updated_at = $6, completed_at = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Status,
		nullable(job.Text),
		job.Pages,
		nullable(job.Error),
		job.UpdatedAt,
		job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

// Delete удаляет задачу
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM extraction_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

// List возвращает список задач с пагинацией и фильтрацией
func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter, pagination domain.Pagination) (*domain.JobListResult, error) {
	where, args := buildJobFilter(filter)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM extraction_jobs"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM extraction_jobs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)+1, len(args)+2)
	args = append(args, pagination.Limit(), pagination.Offset())

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return &domain.JobListResult{
		Jobs:       jobs,
		Total:      total,
		Pagination: pagination,
	}, nil
}

// buildJobFilter возвращает WHERE часть запроса и её аргументы
func buildJobFilter(filter domain.JobFilter) (string, []any) {
	if filter.Status == nil {
		return "", nil
	}
	return " WHERE status = $1", []any{*filter.Status}
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	job := &domain.Job{}
	// NULL колонки
	var text, errorMsg *string

	err := row.Scan(
		&job.ID,
		&job.Status,
		&job.FileKey,
		&job.FileName,
		&job.Source,
		&job.ContentType,
		&job.Size,
		&text,
		&job.Pages,
		&errorMsg,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if text != nil {
		job.Text = *text
	}
	if errorMsg != nil {
		job.Error = *errorMsg
	}

	return job, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
