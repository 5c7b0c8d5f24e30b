package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeBase64Payload декодирует base64 содержимое в payload.
// Пробельные символы (переносы строк) игнорируются, заведомо слишком
// большой документ отклоняется до выделения памяти, некорректный base64
// считается ошибкой извлечения.
func DecodeBase64Payload(content string, name *string, maxSize int64) (Payload, error) {
	content = strings.Join(strings.Fields(content), "")

	// DecodedLen завышает размер не больше чем на 2 байта паддинга
	if int64(base64.StdEncoding.DecodedLen(len(content)))-2 > maxSize {
		return Payload{}, NewTooLargeError(maxSize)
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return Payload{}, NewExtractionFailure(fmt.Errorf("%w: %v", ErrInvalidBase64, err))
	}

	return NewBase64Payload(data, name), nil
}
