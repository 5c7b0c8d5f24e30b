package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/plastinin/pdftext/internal/domain"
)

// fakeExtractor возвращает заданный текст и считает вызовы
type fakeExtractor struct {
	text  string
	pages int
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeExtractor) ExtractText(pdfData []byte) (string, int, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.text, f.pages, f.err
}

type panicExtractor struct{}

func (panicExtractor) ExtractText([]byte) (string, int, error) {
	panic("corrupt xref")
}

type memoryJobRepository struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]domain.Job
	err  error
}

func newMemoryJobRepository() *memoryJobRepository {
	return &memoryJobRepository{jobs: make(map[uuid.UUID]domain.Job)}
}

func (r *memoryJobRepository) Create(ctx context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *memoryJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}

func (r *memoryJobRepository) Update(ctx context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return domain.ErrJobNotFound
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *memoryJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *memoryJobRepository) List(ctx context.Context, filter domain.JobFilter, pagination domain.Pagination) (*domain.JobListResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := make([]*domain.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if filter.Status != nil && job.Status != *filter.Status {
			continue
		}
		job := job
		jobs = append(jobs, &job)
	}
	return &domain.JobListResult{Jobs: jobs, Total: len(jobs), Pagination: pagination}, nil
}

type memoryStorage struct {
	mu          sync.Mutex
	objects     map[string][]byte
	downloadErr error
	deleteErr   error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Upload(ctx context.Context, fileName string, contentType string, reader io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := uuid.NewString() + "/" + fileName
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return key, nil
}

func (s *memoryStorage) Download(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[fileKey]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStorage) Delete(ctx context.Context, fileKey string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, fileKey)
	return nil
}

func (s *memoryStorage) GetURL(ctx context.Context, fileKey string) (string, error) {
	return "http://storage.local/" + fileKey, nil
}

type memoryQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
	err error
}

func (q *memoryQueue) Enqueue(ctx context.Context, jobID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, jobID)
	return nil
}
