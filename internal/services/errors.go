package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Match them with errors.Is; the
// typed errors below carry extra detail for errors.As.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrNotEligible     = errors.New("not eligible to rent")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrAuthentication  = errors.New("authentication failed")
	ErrUnauthorized    = errors.New("missing or invalid identity")
	ErrPaymentMismatch = errors.New("paid fee does not match the fee owed")
	ErrPersistence     = errors.New("persistence failure")
)

// Error is a service failure of a given kind with an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func persistenceError(message string, cause error) *Error {
	return newError(ErrPersistence, message, cause)
}

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// EligibilityError is a business-rule denial of a checkout.
type EligibilityError struct {
	Reason DenyReason
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("rental denied: %s", e.Reason)
}

func (e *EligibilityError) Is(target error) bool {
	return target == ErrNotEligible
}

// PaymentMismatchError is returned when a return is attempted without
// paying exactly the fee owed. Amounts are in currency minor units.
type PaymentMismatchError struct {
	Required int64
	Paid     float64
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("overdue fee not paid: required %d, paid %v", e.Required, e.Paid)
}

func (e *PaymentMismatchError) Is(target error) bool {
	return target == ErrPaymentMismatch
}
