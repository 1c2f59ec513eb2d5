// Package errs provides standardized error types for the fulfillment application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers the failure taxonomy of the dispatch subsystem:
//   - ObjectNotFoundError: an entity is missing
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError: input validation
//   - OperationNotAllowedError: a business rule forbids the operation in the current state
//   - AccessDeniedError: the caller does not own the entity it is acting on
//   - VerificationFailedError: the delivery PIN check failed
//   - TooManyAttemptsError: a rate ceiling was exceeded
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classifies the kind
//
// None of these errors is retried automatically; they are terminal outcomes
// surfaced to the caller. Infrastructure failures (store, broker) are passed
// through untouched and are deliberately not part of this taxonomy.
package errs
