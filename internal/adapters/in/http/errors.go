package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError maps the error taxonomy to HTTP status codes and writes the
// JSON error body. Unclassified errors become 500 with a generic message so
// internals never leak to clients.
func respondError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	message := "internal server error"

	var (
		notFound     *errs.ObjectNotFoundError
		required     *errs.ValueIsRequiredError
		invalid      *errs.ValueIsInvalidError
		outOfRange   *errs.ValueIsOutOfRangeError
		notAllowed   *errs.OperationNotAllowedError
		accessDenied *errs.AccessDeniedError
		verification *errs.VerificationFailedError
		tooMany      *errs.TooManyAttemptsError
	)

	switch {
	case errors.As(err, &notFound):
		code, message = http.StatusNotFound, notFound.Error()
	case errors.As(err, &required):
		code, message = http.StatusBadRequest, required.Error()
	case errors.As(err, &invalid):
		code, message = http.StatusBadRequest, invalid.Error()
	case errors.As(err, &outOfRange):
		code, message = http.StatusBadRequest, outOfRange.Error()
	case errors.As(err, &notAllowed):
		code, message = http.StatusBadRequest, notAllowed.Error()
	case errors.As(err, &accessDenied):
		code, message = http.StatusUnauthorized, accessDenied.Error()
	case errors.As(err, &verification):
		code, message = http.StatusForbidden, verification.Error()
	case errors.As(err, &tooMany):
		code, message = http.StatusTooManyRequests, tooMany.Error()
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}
