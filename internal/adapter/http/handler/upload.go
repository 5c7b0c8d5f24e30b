package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/plastinin/pdftext/internal/adapter/http/dto"
	"github.com/plastinin/pdftext/internal/domain"
	"github.com/plastinin/pdftext/internal/usecase"
)

const (
	fileField = "file"

	// Запас на JSON обвязку и переносы строк в base64
	jsonBodyOverhead = 64 << 10
)

// readUpload читает поле file из multipart формы потоково.
// Заявленный тип проверяется до чтения содержимого, само содержимое
// читается не больше maxSize+1 байт.
func readUpload(r *http.Request, maxSize int64) (domain.Payload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return domain.Payload{}, fmt.Errorf("%w: failed to parse form data", errInvalidRequest)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return domain.Payload{}, fmt.Errorf("%w: file is required", errInvalidRequest)
		}
		if err != nil {
			return domain.Payload{}, fmt.Errorf("%w: failed to parse form data", errInvalidRequest)
		}

		if part.FormName() != fileField {
			part.Close()
			continue
		}

		payload, err := readFilePart(part, maxSize)
		part.Close()
		return payload, err
	}
}

func readFilePart(part *multipart.Part, maxSize int64) (domain.Payload, error) {
	contentType := part.Header.Get("Content-Type")
	if err := domain.ValidateContentType(domain.SourceUpload, contentType); err != nil {
		return domain.Payload{}, err
	}

	data, err := io.ReadAll(io.LimitReader(part, maxSize+1))
	if err != nil {
		return domain.Payload{}, fmt.Errorf("%w: failed to read file", errInvalidRequest)
	}

	payload := domain.NewUploadPayload(data, contentType)
	if err := payload.Validate(maxSize); err != nil {
		return domain.Payload{}, err
	}

	return payload, nil
}

// readBase64Request декодирует JSON тело с base64 содержимым
func readBase64Request(w http.ResponseWriter, r *http.Request, maxSize int64) (usecase.ExtractBase64Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, base64BodyLimit(maxSize))

	var req dto.ExtractBase64Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return usecase.ExtractBase64Input{}, domain.NewTooLargeError(maxSize)
		}
		return usecase.ExtractBase64Input{}, fmt.Errorf("%w: invalid JSON body", errInvalidRequest)
	}

	if req.ContentBytes == nil {
		return usecase.ExtractBase64Input{}, fmt.Errorf("%w: contentBytes is required", errInvalidRequest)
	}

	return usecase.ExtractBase64Input{
		ContentBytes: *req.ContentBytes,
		Name:         req.Name,
	}, nil
}

// base64BodyLimit ограничивает JSON тело сверху. Размер документа
// проверяется после декодирования, переносы строк и их JSON
// экранирование укладываются в удвоенную длину base64.
func base64BodyLimit(maxSize int64) int64 {
	encoded := int64(base64.StdEncoding.EncodedLen(int(maxSize)))
	return 2*encoded + jsonBodyOverhead
}
