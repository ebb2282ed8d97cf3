package models

import "net/http"

// ErrorResponse описывает ошибку с кодом и сообщением.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"reason"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// BadRequest создает ошибку валидации.
func BadRequest(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusBadRequest, message)
}

// NotFound создает ошибку отсутствующего ресурса.
func NotFound(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusNotFound, message)
}

// Forbidden создает ошибку доступа.
func Forbidden(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusForbidden, message)
}

// Conflict создает ошибку недопустимого перехода состояния.
func Conflict(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusConflict, message)
}

// Internal создает ошибку сервера без деталей.
func Internal() *ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError, "internal server error")
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
