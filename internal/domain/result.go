package domain

import "strings"

// ExtractionResult результат работы пайплайна
type ExtractionResult struct {
	Text     string  // Нормализованный текст
	Filename *string // Эхо метки, только для base64
	Pages    int
}

// NormalizeWhitespace схлопывает любые последовательности пробельных
// символов в один пробел и обрезает края
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
