package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", cause)

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("customerPhone")

		assert.Equal(t, "customerPhone", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: customerPhone", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("customerPhone", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: customerPhone (cause: missing required field)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("status", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: status (cause: invalid format)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 0, 1, 100)

		assert.Equal(t, "quantity", err.ParamName)
		assert.Equal(t, 0, err.Value)
		assert.Equal(t, 1, err.Min)
		assert.Equal(t, 100, err.Max)
		assert.Equal(t, "value is invalid: 0 is quantity, min value is 1, max value is 100", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestOperationNotAllowedError(t *testing.T) {
	t.Run("NewOperationNotAllowedError", func(t *testing.T) {
		err := errs.NewOperationNotAllowedError("driverId", "driver has an active delivery")

		assert.Equal(t, "driverId", err.ParamName)
		assert.Equal(t, "driver has an active delivery", err.Message)
		require.NoError(t, err.Cause)
		assert.Equal(t,
			"operation is not allowed: driverId: driver has an active delivery",
			err.Error())
		assert.Equal(t, errs.ErrOperationNotAllowed, err.Unwrap())
	})

	t.Run("NewOperationNotAllowedErrorWithCause", func(t *testing.T) {
		cause := errors.New("status is out_for_delivery")
		err := errs.NewOperationNotAllowedErrorWithCause("orderId", "cannot cancel", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"operation is not allowed: orderId: cannot cancel (cause: status is out_for_delivery)",
			err.Error())
	})
}

func TestAccessDeniedError(t *testing.T) {
	t.Run("NewAccessDeniedError", func(t *testing.T) {
		err := errs.NewAccessDeniedError("orderId", "abc")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "abc", err.ID)
		assert.Equal(t, "access denied: orderId: abc", err.Error())
		assert.Equal(t, errs.ErrAccessDenied, err.Unwrap())
	})
}

func TestVerificationFailedError(t *testing.T) {
	t.Run("NewVerificationFailedError", func(t *testing.T) {
		err := errs.NewVerificationFailedError("verificationCode")

		assert.Equal(t, "verificationCode", err.ParamName)
		assert.Equal(t, "verification failed: verificationCode", err.Error())
		assert.Equal(t, errs.ErrVerificationFailed, err.Unwrap())
	})
}

func TestTooManyAttemptsError(t *testing.T) {
	t.Run("NewTooManyAttemptsError", func(t *testing.T) {
		err := errs.NewTooManyAttemptsError("verificationCode", 5)

		assert.Equal(t, "verificationCode", err.ParamName)
		assert.Equal(t, 5, err.Limit)
		assert.Equal(t, "too many attempts: verificationCode, limit is 5", err.Error())
		assert.Equal(t, errs.ErrTooManyAttempts, err.Unwrap())
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "operation is not allowed", errs.ErrOperationNotAllowed.Error())
		assert.Equal(t, "access denied", errs.ErrAccessDenied.Error())
		assert.Equal(t, "verification failed", errs.ErrVerificationFailed.Error())
		assert.Equal(t, "too many attempts", errs.ErrTooManyAttempts.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("orderId", "123"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsOutOfRangeError("quantity", 0, 1, 100), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, errs.NewValueIsRequiredError("reason"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewOperationNotAllowedError("orderId", "terminal"), errs.ErrOperationNotAllowed)
		require.ErrorIs(t, errs.NewAccessDeniedError("orderId", "abc"), errs.ErrAccessDenied)
		require.ErrorIs(t, errs.NewVerificationFailedError("code"), errs.ErrVerificationFailed)
		require.ErrorIs(t, errs.NewTooManyAttemptsError("code", 5), errs.ErrTooManyAttempts)
	})
}
