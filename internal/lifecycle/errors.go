// Package lifecycle описывает переходы статусов RFQ, предложений и заказов.
package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotPermitted      = errors.New("action not permitted for this party")
	ErrRFQNotActive      = errors.New("rfq is not active")
	ErrAlreadyAccepted   = errors.New("another offer is already accepted for this rfq")
	ErrTotalMismatch     = errors.New("offer total does not match unit price times volume")
	ErrOfferNotFound     = errors.New("offer not found")
	ErrPaymentRequired   = errors.New("order payment has not been received")
	ErrValidation        = errors.New("validation failed")
)

// TransitionError описывает отклонённый переход статуса.
type TransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot move from %q to %q", e.Entity, e.ID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ValidationError описывает ошибку в поле запроса.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
