package dto

import "github.com/plastinin/pdftext/internal/domain"

// ExtractBase64Request тело запроса POST /extract-text-base64
type ExtractBase64Request struct {
	ContentBytes *string `json:"contentBytes"`
	Name         *string `json:"name"`
}

// ExtractTextResponse ответ на загрузку файла
type ExtractTextResponse struct {
	Text string `json:"text"`
}

// ExtractBase64Response ответ на base64 запрос, filename всегда присутствует
type ExtractBase64Response struct {
	Filename *string `json:"filename"`
	Text     string  `json:"text"`
}

// ExtractTextFromDomain конвертирует результат пайплайна в DTO
func ExtractTextFromDomain(result *domain.ExtractionResult) *ExtractTextResponse {
	return &ExtractTextResponse{Text: result.Text}
}

// ExtractBase64FromDomain конвертирует результат пайплайна в DTO
func ExtractBase64FromDomain(result *domain.ExtractionResult) *ExtractBase64Response {
	return &ExtractBase64Response{
		Filename: result.Filename,
		Text:     result.Text,
	}
}
