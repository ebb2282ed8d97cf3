package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListResponse - конверт ответа для списков.
type ListResponse[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

// NewListResponse создаёт конверт списка; nil заменяется пустым массивом.
func NewListResponse[T any](items []T, count int) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Results: items, Count: count}
}

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := models.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// SendError отправляет ошибку сервиса; ошибки без кода скрываются за 500.
func SendError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		if errorResponse.StatusCode >= http.StatusInternalServerError {
			logger.Error("request failed", "status", errorResponse.StatusCode, "error", err)
		} else {
			logger.Debug("request rejected", "status", errorResponse.StatusCode, "reason", errorResponse.Message)
		}
		SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	logger.Error("request failed", "error", err)
	SendErrorResponse(w, http.StatusInternalServerError, "internal server error")
}

// SendJSON отправляет ответ в формате JSON
func SendJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > MaxLimit {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [1:%d]", MaxLimit)
		}
	} else {
		limit = DefaultLimit
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter, must be a non-negative integer")
		}
	}

	return limit, offset, nil
}

// ParseParty извлекает участника из параметров userId и role.
func ParseParty(r *http.Request) (models.Party, error) {
	q := r.URL.Query()
	party := models.Party{ID: q.Get("userId"), Role: models.Role(q.Get("role"))}
	if party.ID == "" || party.Role == "" {
		return models.Party{}, models.BadRequest("missing required query parameters: userId or role")
	}
	if party.Role != models.Buyer && party.Role != models.Supplier {
		return models.Party{}, models.BadRequest(fmt.Sprintf("unsupported role: %s", party.Role))
	}
	return party, nil
}
