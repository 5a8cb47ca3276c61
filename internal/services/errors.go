package services

import "errors"

var (
	ErrInvalidPaymentType = errors.New("invalid payment type")
	ErrItemNotFound       = errors.New("item not found")
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrGatewayUnavailable = errors.New("checkout provider unavailable")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrInvalidPayload     = errors.New("invalid webhook payload")
)

// FieldError ties a domain error to the request field that caused it.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(err error, field, message string) error {
	return &FieldError{Field: field, Message: message, Err: err}
}
