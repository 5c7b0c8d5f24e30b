package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/plastinin/pdftext/internal/config"
)

const presignExpiry = time.Hour

// S3Storage хранилище документов асинхронных задач на базе S3/MinIO
type S3Storage struct {
	client *minio.Client
	bucket string
}

// NewS3Storage создаёт новый экземпляр S3Storage и при необходимости bucket
func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &S3Storage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// ObjectKey строит ключ вида documents/yyyy/mm/dd/uuid/filename.
// Имя от клиента очищается от пути.
func ObjectKey(now time.Time, id uuid.UUID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "document.pdf"
	}
	return path.Join("documents", now.Format("2006/01/02"), id.String(), name)
}

// Upload загружает документ в S3 и возвращает ключ
func (s *S3Storage) Upload(ctx context.Context, fileName string, contentType string, reader io.Reader, size int64) (string, error) {
	fileKey := ObjectKey(time.Now().UTC(), uuid.New(), fileName)

	_, err := s.client.PutObject(ctx, s.bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	return fileKey, nil
}

// Download скачивает документ из S3
func (s *S3Storage) Download(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	// GetObject ленивый, Stat проверяет существование объекта
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return obj, nil
}

// Delete удаляет документ из S3
func (s *S3Storage) Delete(ctx context.Context, fileKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetURL возвращает presigned URL исходного документа
func (s *S3Storage) GetURL(ctx context.Context, fileKey string) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}
