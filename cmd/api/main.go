package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/plastinin/pdftext/internal/adapter/extractor"
	"github.com/plastinin/pdftext/internal/adapter/http/handler"
	"github.com/plastinin/pdftext/internal/adapter/queue"
	"github.com/plastinin/pdftext/internal/adapter/repository"
	"github.com/plastinin/pdftext/internal/adapter/storage"
	"github.com/plastinin/pdftext/internal/config"
	"github.com/plastinin/pdftext/internal/usecase"
	"github.com/plastinin/pdftext/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apphttp "github.com/plastinin/pdftext/internal/adapter/http"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Инициализируем логгер
	log := logger.ForService(logger.Must(cfg.Log.Level, cfg.Log.Format), "api")
	defer log.Sync()

	log.Info("Starting pdftext API",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Int64("max_payload_size", cfg.Extract.MaxPayloadSize),
		zap.Bool("async_enabled", cfg.Async.Enabled),
	)

	// Контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline := usecase.NewExtractionUseCase(extractor.NewFitzExtractor(), cfg.Extract, log)

	extractHandler := handler.NewExtractHandler(pipeline, log)
	healthHandler := handler.NewHealthHandler(log)

	var jobHandler *handler.JobHandler
	if cfg.Async.Enabled {
		jobUC, cleanup := initJobs(ctx, cfg, log)
		defer cleanup()
		jobHandler = handler.NewJobHandler(jobUC, cfg.Extract.MaxPayloadSize, log)
	}

	router := apphttp.NewRouter(extractHandler, jobHandler, healthHandler, cfg.CORS, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server starting",
			zap.String("addr", cfg.Server.Addr()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("HTTP server stopped with error", zap.Error(err))
		return
	}

	log.Info("Server stopped")
}

// initJobs подключает PostgreSQL, S3 и Redis для асинхронных задач
func initJobs(ctx context.Context, cfg *config.Config, log *zap.Logger) (*usecase.JobUseCase, func()) {
	dbPool, err := repository.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
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

	producer := queue.NewJobProducer(cfg.Redis, cfg.Async.MaxRetry)
	log.Info("Connected to Redis",
		zap.String("addr", cfg.Redis.Addr()),
	)

	jobRepo := repository.NewJobRepository(dbPool)
	jobUC := usecase.NewJobUseCase(jobRepo, s3Storage, producer, cfg.Extract.MaxPayloadSize, log)

	return jobUC, func() {
		if err := producer.Close(); err != nil {
			log.Warn("Failed to close queue producer", zap.Error(err))
		}
		dbPool.Close()
	}
}
