package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/plastinin/pdftext/internal/domain"
)

// FitzExtractor извлекает текст из PDF через MuPDF (go-fitz)
// с параметрами разметки по умолчанию
type FitzExtractor struct{}

// NewFitzExtractor создаёт новый экстрактор
func NewFitzExtractor() *FitzExtractor {
	return &FitzExtractor{}
}

// ExtractText извлекает текст всех страниц, разделяя страницы переводом строки
func (e *FitzExtractor) ExtractText(pdfData []byte) (string, int, error) {
	if len(pdfData) == 0 {
		return "", 0, domain.ErrEmptyPayload
	}

	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return "", 0, classifyOpenError(err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	if numPages == 0 {
		return "", 0, domain.ErrNoPages
	}

	var sb strings.Builder
	for i := 0; i < numPages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", 0, fmt.Errorf("failed to extract text from page %d: %w", i+1, err)
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}

	return sb.String(), numPages, nil
}

// classifyOpenError сводит ошибки открытия документа к известным причинам
func classifyOpenError(err error) error {
	switch {
	case errors.Is(err, fitz.ErrNeedsPassword):
		return domain.ErrEncryptedDocument
	case errors.Is(err, fitz.ErrEmptyBytes):
		return domain.ErrEmptyPayload
	case errors.Is(err, fitz.ErrOpenDocument), errors.Is(err, fitz.ErrOpenMemory):
		return fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	default:
		return fmt.Errorf("failed to open PDF: %w", err)
	}
}
