package session

import (
	"errors"
	"sync"
)

type Phase string // Стадия оптимистичного изменения

const (
	Confirmed  Phase = "confirmed"
	Pending    Phase = "pending"
	RolledBack Phase = "rolled_back"
)

// ErrPending возвращается при попытке начать изменение, пока предыдущее не завершено.
var ErrPending = errors.New("change already pending")

// Tracked хранит значение, показанное пользователю до ответа сервера,
// и прежнее значение для отката.
type Tracked[T any] struct {
	mu    sync.Mutex
	value T
	prior T
	phase Phase
}

// NewTracked создаёт подтверждённое значение.
func NewTracked[T any](value T) *Tracked[T] {
	return &Tracked[T]{value: value, phase: Confirmed}
}

// Value возвращает текущее значение и его стадию.
func (t *Tracked[T]) Value() (T, Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.phase
}

// Begin показывает next до подтверждения сервером.
func (t *Tracked[T]) Begin(next T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase == Pending {
		return ErrPending
	}
	t.prior = t.value
	t.value = next
	t.phase = Pending
	return nil
}

// Confirm заменяет значение ответом сервера.
func (t *Tracked[T]) Confirm(value T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = value
	t.phase = Confirmed
}

// Rollback возвращает значение, бывшее до Begin.
func (t *Tracked[T]) Rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != Pending {
		return
	}
	t.value = t.prior
	t.phase = RolledBack
}
