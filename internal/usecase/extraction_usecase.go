package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plastinin/pdftext/internal/config"
	"github.com/plastinin/pdftext/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ExtractionUseCase пайплайн: проверка, извлечение, нормализация
type ExtractionUseCase struct {
	extractor TextExtractor
	limiter   *semaphore.Weighted
	maxSize   int64
	timeout   time.Duration
	logger    *zap.Logger
}

// NewExtractionUseCase создаёт новый экземпляр ExtractionUseCase
func NewExtractionUseCase(extractor TextExtractor, cfg config.ExtractConfig, logger *zap.Logger) *ExtractionUseCase {
	maxSize := cfg.MaxPayloadSize
	if maxSize <= 0 {
		maxSize = domain.DefaultMaxPayloadSize
	}
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &ExtractionUseCase{
		extractor: extractor,
		limiter:   semaphore.NewWeighted(concurrency),
		maxSize:   maxSize,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// MaxPayloadSize возвращает лимит размера документа
func (uc *ExtractionUseCase) MaxPayloadSize() int64 {
	return uc.maxSize
}

// Extract прогоняет документ через пайплайн.
// Ошибки проверки возвращаются до вызова библиотеки извлечения,
// любая ошибка возвращается как *domain.ExtractionError.
func (uc *ExtractionUseCase) Extract(ctx context.Context, payload domain.Payload) (*domain.ExtractionResult, error) {
	if err := payload.Validate(uc.maxSize); err != nil {
		uc.logger.Debug("Payload rejected",
			zap.String("source", payload.Source.String()),
			zap.String("content_type", payload.ContentType),
			zap.Int("size", len(payload.Data)),
			zap.Error(err),
		)
		return nil, err
	}

	started := time.Now()

	text, pages, err := uc.runExtractor(ctx, payload.Data)
	if err != nil {
		uc.logger.Warn("PDF extraction failed",
			zap.String("source", payload.Source.String()),
			zap.Int("size", len(payload.Data)),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err),
		)
		return nil, domain.NewExtractionFailure(err)
	}

	result := &domain.ExtractionResult{
		Text:  domain.NormalizeWhitespace(text),
		Pages: pages,
	}
	if payload.Source == domain.SourceBase64 {
		result.Filename = payload.Name
	}

	uc.logger.Debug("PDF extracted",
		zap.String("source", payload.Source.String()),
		zap.Int("size", len(payload.Data)),
		zap.Int("pages", pages),
		zap.Int("text_length", len(result.Text)),
		zap.Duration("duration", time.Since(started)),
	)

	return result, nil
}

// ExtractBase64 декодирует base64 и прогоняет результат через пайплайн.
// Некорректный base64 считается ошибкой извлечения.
func (uc *ExtractionUseCase) ExtractBase64(ctx context.Context, input ExtractBase64Input) (*domain.ExtractionResult, error) {
	payload, err := domain.DecodeBase64Payload(input.ContentBytes, input.Name, uc.maxSize)
	if err != nil {
		return nil, err
	}
	return uc.Extract(ctx, payload)
}

type extractOutcome struct {
	text  string
	pages int
	err   error
}

// runExtractor вызывает блокирующую библиотеку в отдельной горутине
// с ограничением параллельности и времени выполнения
func (uc *ExtractionUseCase) runExtractor(ctx context.Context, data []byte) (string, int, error) {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	if err := uc.limiter.Acquire(ctx, 1); err != nil {
		return "", 0, contextError(ctx, err)
	}

	resultCh := make(chan extractOutcome, 1)
	go func() {
		// Слот освобождается только когда библиотека действительно закончила
		defer uc.limiter.Release(1)
		defer func() {
			if r := recover(); r != nil {
				resultCh <- extractOutcome{err: fmt.Errorf("extractor panic: %v", r)}
			}
		}()

		text, pages, err := uc.extractor.ExtractText(data)
		resultCh <- extractOutcome{text: text, pages: pages, err: err}
	}()

	select {
	case res := <-resultCh:
		return res.text, res.pages, res.err
	case <-ctx.Done():
		return "", 0, contextError(ctx, ctx.Err())
	}
}

func contextError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrExtractionTimeout
	}
	return err
}
