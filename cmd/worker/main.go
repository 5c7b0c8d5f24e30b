package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/plastinin/pdftext/internal/adapter/extractor"
	"github.com/plastinin/pdftext/internal/adapter/queue"
	"github.com/plastinin/pdftext/internal/adapter/repository"
	"github.com/plastinin/pdftext/internal/adapter/storage"
	"github.com/plastinin/pdftext/internal/config"
	"github.com/plastinin/pdftext/internal/usecase"
	"github.com/plastinin/pdftext/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Инициализируем логгер
	log := logger.ForService(logger.Must(cfg.Log.Level, cfg.Log.Format), "worker")
	defer log.Sync()

	log.Info("Starting pdftext worker",
		zap.Int("concurrency", cfg.Async.WorkerConcurrency),
		zap.Int64("max_payload_size", cfg.Extract.MaxPayloadSize),
		zap.Duration("extract_timeout", cfg.Extract.Timeout),
	)

	ctx := context.Background()

	dbPool, err := repository.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()
	if err := repository.EnsureSchema(ctx, dbPool); err != nil {
		log.Fatal("Failed to prepare database schema", zap.Error(err))
	}
	log.Info("Connected to PostgreSQL")

	s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		log.Fatal("Failed to connect to S3", zap.Error(err))
	}
	log.Info("Connected to S3",
		zap.String("endpoint", cfg.S3.Endpoint),
		zap.String("bucket", cfg.S3.Bucket),
	)

	pipeline := usecase.NewExtractionUseCase(extractor.NewFitzExtractor(), cfg.Extract, log)

	jobRepo := repository.NewJobRepository(dbPool)
	processingUC := usecase.NewProcessingUseCase(jobRepo, s3Storage, pipeline, log)

	consumer := queue.NewJobConsumer(cfg.Redis, cfg.Async.WorkerConcurrency, processingUC, log)

	// Start не блокирует: asynq обрабатывает задачи в своих горутинах
	if err := consumer.Start(); err != nil {
		log.Fatal("Failed to start consumer", zap.Error(err))
	}

	log.Info("Worker started, waiting for jobs...")

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")

	consumer.Stop()

	log.Info("Worker stopped")
}
