package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is. Each custom error type
// unwraps to exactly one of these, which is how callers (and the HTTP adapter)
// decide how to surface a failure.
var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrValueIsRequired     = errors.New("value is required")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsOutOfRange   = errors.New("value is out of range")
	ErrOperationNotAllowed = errors.New("operation is not allowed")
	ErrAccessDenied        = errors.New("access denied")
	ErrVerificationFailed  = errors.New("verification failed")
	ErrTooManyAttempts     = errors.New("too many attempts")
)

// sanitize strips newlines from values interpolated into error messages
// so that a single error always renders as a single log line.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// ObjectNotFoundError indicates that an entity could not be located by its identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsRequiredError indicates that a mandatory value was absent.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates that a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a numeric value fell outside its permitted bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %v)",
			ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// OperationNotAllowedError indicates a business-rule violation: the entity exists
// but its current state does not permit the requested operation (an illegal status
// transition, a driver that is still busy, an order that already has a driver).
type OperationNotAllowedError struct {
	ParamName string
	Message   string
	Cause     error
}

// NewOperationNotAllowedError creates an OperationNotAllowedError without a cause.
func NewOperationNotAllowedError(paramName, message string) *OperationNotAllowedError {
	return &OperationNotAllowedError{ParamName: paramName, Message: message}
}

// NewOperationNotAllowedErrorWithCause creates an OperationNotAllowedError wrapping an underlying cause.
func NewOperationNotAllowedErrorWithCause(paramName, message string, cause error) *OperationNotAllowedError {
	return &OperationNotAllowedError{ParamName: paramName, Message: message, Cause: cause}
}

func (e *OperationNotAllowedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s: %s (cause: %v)", ErrOperationNotAllowed, e.ParamName, e.Message, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s: %s", ErrOperationNotAllowed, e.ParamName, e.Message))
}

func (e *OperationNotAllowedError) Unwrap() error {
	return ErrOperationNotAllowed
}

// AccessDeniedError indicates the caller is not the party the entity belongs to,
// for example a driver acting on an order assigned to somebody else.
type AccessDeniedError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewAccessDeniedError creates an AccessDeniedError without a cause.
func NewAccessDeniedError(paramName string, id any) *AccessDeniedError {
	return &AccessDeniedError{ParamName: paramName, ID: id}
}

// NewAccessDeniedErrorWithCause creates an AccessDeniedError wrapping an underlying cause.
func NewAccessDeniedErrorWithCause(paramName string, id any, cause error) *AccessDeniedError {
	return &AccessDeniedError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *AccessDeniedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s: %s (cause: %v)", ErrAccessDenied, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s: %s", ErrAccessDenied, e.ParamName, e.ID))
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

// VerificationFailedError indicates that a presented secret (the delivery PIN)
// did not match the stored hash.
type VerificationFailedError struct {
	ParamName string
	Cause     error
}

// NewVerificationFailedError creates a VerificationFailedError without a cause.
func NewVerificationFailedError(paramName string) *VerificationFailedError {
	return &VerificationFailedError{ParamName: paramName}
}

// NewVerificationFailedErrorWithCause creates a VerificationFailedError wrapping an underlying cause.
func NewVerificationFailedErrorWithCause(paramName string, cause error) *VerificationFailedError {
	return &VerificationFailedError{ParamName: paramName, Cause: cause}
}

func (e *VerificationFailedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %v)", ErrVerificationFailed, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrVerificationFailed, e.ParamName))
}

func (e *VerificationFailedError) Unwrap() error {
	return ErrVerificationFailed
}

// TooManyAttemptsError indicates that a rate ceiling was exceeded.
// The limit resets on its own once the counting window expires.
type TooManyAttemptsError struct {
	ParamName string
	Limit     int
	Cause     error
}

// NewTooManyAttemptsError creates a TooManyAttemptsError without a cause.
func NewTooManyAttemptsError(paramName string, limit int) *TooManyAttemptsError {
	return &TooManyAttemptsError{ParamName: paramName, Limit: limit}
}

// NewTooManyAttemptsErrorWithCause creates a TooManyAttemptsError wrapping an underlying cause.
func NewTooManyAttemptsErrorWithCause(paramName string, limit int, cause error) *TooManyAttemptsError {
	return &TooManyAttemptsError{ParamName: paramName, Limit: limit, Cause: cause}
}

func (e *TooManyAttemptsError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s, limit is %d (cause: %v)", ErrTooManyAttempts, e.ParamName, e.Limit, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s, limit is %d", ErrTooManyAttempts, e.ParamName, e.Limit))
}

func (e *TooManyAttemptsError) Unwrap() error {
	return ErrTooManyAttempts
}
