package dto

import (
	"time"

	"github.com/plastinin/pdftext/internal/domain"
)

// JobResponse ответ с информацией о задаче
type JobResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Source      string     `json:"source"`
	FileName    *string    `json:"filename,omitempty"`
	Size        int64      `json:"size"`
	Text        *string    `json:"text,omitempty"`
	Pages       int        `json:"pages,omitempty"`
	Error       string     `json:"error,omitempty"`
	DocumentURL string     `json:"document_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobFromDomain конвертирует доменную модель в DTO.
// Текст отдаётся только у завершённой задачи, пустой текст тоже результат.
func JobFromDomain(job *domain.Job) *JobResponse {
	resp := &JobResponse{
		ID:          job.ID.String(),
		Status:      job.Status.String(),
		Source:      job.Source.String(),
		FileName:    job.FileName,
		Size:        job.Size,
		Pages:       job.Pages,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.Status == domain.JobStatusCompleted {
		text := job.Text
		resp.Text = &text
	}
	return resp
}

// JobListResponse ответ со списком задач
type JobListResponse struct {
	Jobs       []*JobResponse `json:"jobs"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// JobListFromDomain конвертирует результат списка в DTO
func JobListFromDomain(result *domain.JobListResult) *JobListResponse {
	jobs := make([]*JobResponse, len(result.Jobs))
	for i, job := range result.Jobs {
		jobs[i] = JobFromDomain(job)
	}

	return &JobListResponse{
		Jobs:       jobs,
		Total:      result.Total,
		Page:       result.Pagination.Page,
		PageSize:   result.Pagination.PageSize,
		TotalPages: result.TotalPages(),
	}
}
