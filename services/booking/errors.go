package booking

import (
	"errors"
	"fmt"
)

// ErrorCode classifies pipeline failures; handlers map codes to HTTP status.
type ErrorCode string

const (
	CodeValidation          ErrorCode = "validation_error"
	CodeGatewayUnavailable  ErrorCode = "gateway_unavailable"
	CodeNotFound            ErrorCode = "not_found"
	CodePaymentNotCompleted ErrorCode = "payment_not_completed"
	CodeAuthentication      ErrorCode = "authentication_failed"
	CodePartialSuccess      ErrorCode = "partial_success"
)

type BookingError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error { return e.Err }

// Is matches any BookingError with the same code, so errors.Is(err, ErrNotFound) works.
func (e *BookingError) Is(target error) bool {
	var t *BookingError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrValidation          = &BookingError{Code: CodeValidation}
	ErrGatewayUnavailable  = &BookingError{Code: CodeGatewayUnavailable}
	ErrNotFound            = &BookingError{Code: CodeNotFound}
	ErrPaymentNotCompleted = &BookingError{Code: CodePaymentNotCompleted}
	ErrAuthentication      = &BookingError{Code: CodeAuthentication}
	ErrPartialSuccess      = &BookingError{Code: CodePartialSuccess}
)

func NewValidationError(details error) error {
	return &BookingError{Code: CodeValidation, Message: "invalid booking data", Err: details}
}

func newGatewayError(msg string, err error) error {
	return &BookingError{Code: CodeGatewayUnavailable, Message: msg, Err: err}
}

func newNotFoundError(sessionID string, err error) error {
	return &BookingError{Code: CodeNotFound, Message: "checkout session " + sessionID + " not found", Err: err}
}

func newPaymentNotCompletedError(sessionID, paymentStatus string) error {
	return &BookingError{
		Code:    CodePaymentNotCompleted,
		Message: fmt.Sprintf("payment for session %s is %q", sessionID, paymentStatus),
	}
}

// CodeOf returns the code of the first BookingError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
