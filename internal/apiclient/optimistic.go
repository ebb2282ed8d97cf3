package apiclient

import (
	"context"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/session"
)

// Optimistic показывает next сразу, затем выполняет call. При успехе значение
// заменяется ответом сервера, при ошибке возвращается прежнее.
func Optimistic[T any](ctx context.Context, tracked *session.Tracked[T], next T, call func(context.Context) (T, error)) (T, error) {
	if err := tracked.Begin(next); err != nil {
		var zero T
		return zero, err
	}
	result, err := call(ctx)
	if err != nil {
		tracked.Rollback()
		var zero T
		return zero, err
	}
	tracked.Confirm(result)
	return result, nil
}
