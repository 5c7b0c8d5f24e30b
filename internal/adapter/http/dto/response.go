package dto

// ErrorResponse ответ с ошибкой
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// NewErrorResponse создаёт ответ с ошибкой
func NewErrorResponse(err string, detail string) *ErrorResponse {
	return &ErrorResponse{
		Error:  err,
		Detail: detail,
	}
}

// MessageResponse приветствие корневого эндпоинта
type MessageResponse struct {
	Message string `json:"message"`
}
