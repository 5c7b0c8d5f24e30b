package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind вид ошибки пайплайна
type ErrorKind string

const (
	KindInvalidType       ErrorKind = "invalid_type"
	KindTooLarge          ErrorKind = "too_large"
	KindExtractionFailure ErrorKind = "extraction_failed"
)

// Ожидаемые причины ошибки извлечения
var (
	ErrEmptyPayload      = errors.New("empty document")
	ErrEncryptedDocument = errors.New("document is password protected")
	ErrMalformedDocument = errors.New("malformed PDF document")
	ErrNoPages           = errors.New("PDF has no pages")
	ErrInvalidBase64     = errors.New("invalid base64 content")
	ErrExtractionTimeout = errors.New("extraction timed out")
)

// ExtractionError ошибка пайплайна с HTTP статусом
type ExtractionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// StatusCode возвращает HTTP статус для вида ошибки
func (e *ExtractionError) StatusCode() int {
	switch e.Kind {
	case KindInvalidType:
		return http.StatusBadRequest
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// NewInvalidTypeError заявленный тип не application/pdf
func NewInvalidTypeError(contentType string) *ExtractionError {
	return &ExtractionError{
		Kind:    KindInvalidType,
		Message: fmt.Sprintf("invalid file type %q: only PDF files are accepted", contentType),
	}
}

// NewTooLargeError документ превышает лимит
func NewTooLargeError(maxSize int64) *ExtractionError {
	return &ExtractionError{
		Kind:    KindTooLarge,
		Message: fmt.Sprintf("file too large: maximum allowed size is %d bytes", maxSize),
	}
}

// NewExtractionFailure оборачивает ошибку извлечения или декодирования
func NewExtractionFailure(err error) *ExtractionError {
	return &ExtractionError{
		Kind:    KindExtractionFailure,
		Message: fmt.Sprintf("extraction error: %v", err),
		Err:     err,
	}
}

// AsExtractionError достаёт ExtractionError из цепочки.
// Неизвестные ошибки считаются ошибкой извлечения.
func AsExtractionError(err error) *ExtractionError {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr
	}
	return NewExtractionFailure(err)
}

// IsKind проверяет вид ошибки
func IsKind(err error, kind ErrorKind) bool {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Kind == kind
	}
	return false
}
