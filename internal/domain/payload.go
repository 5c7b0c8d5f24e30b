package domain

const (
	// ContentTypePDF единственный допустимый заявленный тип для загрузки файла
	ContentTypePDF = "application/pdf"

	// DefaultMaxPayloadSize максимальный размер документа по умолчанию (10 MiB)
	DefaultMaxPayloadSize = 10 * 1024 * 1024
)

// Source откуда пришёл документ
type Source string

const (
	SourceUpload Source = "upload" // multipart/form-data
	SourceBase64 Source = "base64" // JSON с base64 содержимым
)

// IsValid проверяет валидность источника
func (s Source) IsValid() bool {
	return s == SourceUpload || s == SourceBase64
}

func (s Source) String() string {
	return string(s)
}

// Payload документ, полученный в рамках одного запроса
type Payload struct {
	Source      Source
	Data        []byte
	ContentType string  // Заявленный тип, проверяется только для SourceUpload
	Name        *string // Необязательная метка, только для SourceBase64
}

// NewUploadPayload создаёт payload из multipart загрузки
func NewUploadPayload(data []byte, contentType string) Payload {
	return Payload{
		Source:      SourceUpload,
		Data:        data,
		ContentType: contentType,
	}
}

// NewBase64Payload создаёт payload из декодированного base64
func NewBase64Payload(data []byte, name *string) Payload {
	return Payload{
		Source: SourceBase64,
		Data:   data,
		Name:   name,
	}
}

// Validate проверяет заявленный тип и размер до извлечения текста.
// Тип проверяется раньше размера, содержимое не анализируется.
func (p Payload) Validate(maxSize int64) error {
	if err := ValidateContentType(p.Source, p.ContentType); err != nil {
		return err
	}
	return ValidateSize(int64(len(p.Data)), maxSize)
}

// ValidateContentType проверяет заявленный тип для источника
func ValidateContentType(source Source, contentType string) error {
	if source != SourceUpload {
		return nil
	}
	if contentType != ContentTypePDF {
		return NewInvalidTypeError(contentType)
	}
	return nil
}

// ValidateSize проверяет размер документа
func ValidateSize(size, maxSize int64) error {
	if size > maxSize {
		return NewTooLargeError(maxSize)
	}
	return nil
}
