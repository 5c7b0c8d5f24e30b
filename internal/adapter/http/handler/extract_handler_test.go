package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plastinin/pdftext/internal/adapter/http/dto"
	"github.com/plastinin/pdftext/internal/config"
	"github.com/plastinin/pdftext/internal/domain"
	"github.com/plastinin/pdftext/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// stubExtractor имитирует библиотеку: PDF начинается с %PDF-
type stubExtractor struct {
	text  string
	calls atomic.Int32
}

func (s *stubExtractor) ExtractText(pdfData []byte) (string, int, error) {
	s.calls.Add(1)
	if !bytes.HasPrefix(pdfData, []byte("%PDF-")) {
		return "", 0, domain.ErrMalformedDocument
	}
	return s.text, 1, nil
}

func newExtractHandler(extractor usecase.TextExtractor) *ExtractHandler {
	pipeline := usecase.NewExtractionUseCase(extractor, config.ExtractConfig{
		MaxPayloadSize: domain.DefaultMaxPayloadSize,
		Timeout:        5 * time.Second,
		MaxConcurrency: 2,
	}, zap.NewNop())
	return NewExtractHandler(pipeline, zap.NewNop())
}

func multipartBody(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	require.NoError(t, writer.WriteField("comment", "ignored"))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="doc.pdf"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestExtractText_Success(t *testing.T) {
	extractor := &stubExtractor{text: "Hello\n\nWorld   !"}
	h := newExtractHandler(extractor)

	body, ct := multipartBody(t, "file", domain.ContentTypePDF, []byte("%PDF-1.4 hello"))
	req := httptest.NewRequest(http.MethodPost, "/extract-text", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()

	h.ExtractText(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"text":"Hello World !"}`, rr.Body.String())
}

func TestExtractText_InvalidType(t *testing.T) {
	extractor := &stubExtractor{text: "never"}
	h := newExtractHandler(extractor)

	body, ct := multipartBody(t, "file", "image/png", []byte("\x89PNG\r\n"))
	req := httptest.NewRequest(http.MethodPost, "/extract-text", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()

	h.ExtractText(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, "invalid_type", resp.Error)
	assert.NotEmpty(t, resp.Detail)
	assert.Zero(t, extractor.calls.Load())
}

func TestExtractText_MissingContentType(t *testing.T) {
	h := newExtractHandler(&stubExtractor{})

	body, ct := multipartBody(t, "file", "", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/extract-text", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()

	h.ExtractText(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExtractText_TooLarge(t *testing.T) {
	extractor := &stubExtractor{text: "never"}
	h := newExtractHandler(extractor)

	data := append([]byte("%PDF-"), make([]byte, domain.DefaultMaxPayloadSize-4)...)
	require.Len(t, data, domain.DefaultMaxPayloadSize+1)

	body, ct := multipartBody(t, "file", domain.ContentTypePDF, data)
	req := httptest.NewRequest(http.MethodPost, "/extract-text", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()

	h.ExtractText(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "too_large", decodeError(t, rr).Error)
	assert.Zero(t, extractor.calls.Load())
}

func TestExtractText_MalformedPDF(t *testing.T) {
	h := newExtractHandler(&stubExtractor{})

	body, ct := multipartBody(t, "file", domain.ContentTypePDF, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	req := httptest.NewRequest(http.MethodPost, "/extract-text", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()

	h.ExtractText(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, "extraction_failed", resp.Error)
	assert.Contains(t, resp.Detail, domain.ErrMalformedDocument.Error())
}

func TestExtractText_MissingFile(t *testing.T) {
	h := newExtractHandler(&stubExtractor{})

	body, ct := multipartBody(t, "document", domain.ContentTypePDF, []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/extract-text", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()

	h.ExtractText(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rr).Error)
}

func TestExtractText_NotMultipart(t *testing.T) {
	h := newExtractHandler(&stubExtractor{})

	req := httptest.NewRequest(http.MethodPost, "/extract-text", strings.NewReader("%PDF-1.4"))
	req.Header.Set("Content-Type", domain.ContentTypePDF)
	rr := httptest.NewRecorder()

	h.ExtractText(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestExtractTextBase64_Success(t *testing.T) {
	h := newExtractHandler(&stubExtractor{text: "  Bonjour\t\tle monde \n"})

	reqBody := `{"contentBytes":"` + base64.StdEncoding.EncodeToString([]byte("%PDF-1.7")) + `","name":"lettre.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/extract-text-base64", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.ExtractTextBase64(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"filename":"lettre.pdf","text":"Bonjour le monde"}`, rr.Body.String())
}

func TestExtractTextBase64_NoName(t *testing.T) {
	h := newExtractHandler(&stubExtractor{text: "text"})

	reqBody := `{"contentBytes":"` + base64.StdEncoding.EncodeToString([]byte("%PDF-1.7")) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/extract-text-base64", strings.NewReader(reqBody))
	rr := httptest.NewRecorder()

	h.ExtractTextBase64(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"filename":null,"text":"text"}`, rr.Body.String())
}

func TestExtractTextBase64_InvalidBase64(t *testing.T) {
	extractor := &stubExtractor{}
	h := newExtractHandler(extractor)

	req := httptest.NewRequest(http.MethodPost, "/extract-text-base64", strings.NewReader(`{"contentBytes":"%%% not base64 %%%"}`))
	rr := httptest.NewRecorder()

	h.ExtractTextBase64(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "extraction_failed", decodeError(t, rr).Error)
	assert.Zero(t, extractor.calls.Load())
}

func TestExtractTextBase64_TooLarge(t *testing.T) {
	extractor := &stubExtractor{}
	h := newExtractHandler(extractor)

	encoded := base64.StdEncoding.EncodeToString(make([]byte, domain.DefaultMaxPayloadSize+1))
	req := httptest.NewRequest(http.MethodPost, "/extract-text-base64", strings.NewReader(`{"contentBytes":"`+encoded+`"}`))
	rr := httptest.NewRecorder()

	h.ExtractTextBase64(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Zero(t, extractor.calls.Load())
}

// wrapLines разбивает base64 на строки по 76 символов с CRLF, как MIME
func wrapLines(encoded string) string {
	var sb strings.Builder
	for len(encoded) > 76 {
		sb.WriteString(encoded[:76])
		sb.WriteString("\r\n")
		encoded = encoded[76:]
	}
	sb.WriteString(encoded)
	return sb.String()
}

func TestExtractTextBase64_WrappedAtLimit(t *testing.T) {
	extractor := &stubExtractor{text: "ok"}
	h := newExtractHandler(extractor)

	data := append([]byte("%PDF-"), make([]byte, domain.DefaultMaxPayloadSize-5)...)
	require.Len(t, data, domain.DefaultMaxPayloadSize)

	name := "wrapped.pdf"
	contentBytes := wrapLines(base64.StdEncoding.EncodeToString(data))
	reqBody, err := json.Marshal(dto.ExtractBase64Request{ContentBytes: &contentBytes, Name: &name})
	require.NoError(t, err)
	require.Greater(t, int64(len(reqBody)), int64(base64.StdEncoding.EncodedLen(len(data)))*33/32)

	req := httptest.NewRequest(http.MethodPost, "/extract-text-base64", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.ExtractTextBase64(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, decodeError(t, rr).Detail)
	assert.JSONEq(t, `{"filename":"wrapped.pdf","text":"ok"}`, rr.Body.String())
	assert.EqualValues(t, 1, extractor.calls.Load())
}

func TestExtractTextBase64_WrappedOverLimit(t *testing.T) {
	extractor := &stubExtractor{}
	h := newExtractHandler(extractor)

	contentBytes := wrapLines(base64.StdEncoding.EncodeToString(make([]byte, domain.DefaultMaxPayloadSize+1)))
	reqBody, err := json.Marshal(dto.ExtractBase64Request{ContentBytes: &contentBytes})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/extract-text-base64", bytes.NewReader(reqBody))
	rr := httptest.NewRecorder()

	h.ExtractTextBase64(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Zero(t, extractor.calls.Load())
}

func TestExtractTextBase64_InvalidJSON(t *testing.T) {
	h := newExtractHandler(&stubExtractor{})

	for _, body := range []string{`{"contentBytes":`, `{"name":"x.pdf"}`, `[]`} {
		req := httptest.NewRequest(http.MethodPost, "/extract-text-base64", strings.NewReader(body))
		rr := httptest.NewRecorder()

		h.ExtractTextBase64(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, body)
	}
}

func TestRespondPipelineError_UnknownError(t *testing.T) {
	rr := httptest.NewRecorder()

	respondPipelineError(rr, zap.NewNop(), errors.New("library exploded"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, "extraction_failed", resp.Error)
	assert.Contains(t, resp.Detail, "library exploded")
}

func TestExtractText_FailureLoggedOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)
	pipeline := usecase.NewExtractionUseCase(&stubExtractor{}, config.ExtractConfig{
		MaxPayloadSize: domain.DefaultMaxPayloadSize,
		Timeout:        5 * time.Second,
		MaxConcurrency: 1,
	}, log)
	h := NewExtractHandler(pipeline, log)

	body, ct := multipartBody(t, "file", domain.ContentTypePDF, []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/extract-text", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()

	h.ExtractText(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "PDF extraction failed", logs.All()[0].Message)
}
