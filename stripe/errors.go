package stripe

import (
	"errors"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v82"
)

// StripeError represents a Stripe-specific error
type StripeError struct {
	Code    string
	Message string
	Type    string
	Err     error
}

func (e *StripeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stripe error [%s]: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("stripe error [%s]: %s", e.Code, e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.Err
}

// Common Stripe errors
var (
	ErrInvalidConfiguration = &StripeError{Code: "invalid_configuration", Message: "invalid stripe configuration"}
	ErrAPICallFailed        = &StripeError{Code: "api_call_failed", Message: "stripe API call failed"}
	ErrInvalidSession       = &StripeError{Code: "invalid_session", Message: "stripe returned an unusable checkout session"}
)

// Is matches StripeErrors by code, so errors.Is(err, ErrAPICallFailed) holds
// for any API call failure regardless of its message.
func (e *StripeError) Is(target error) bool {
	t, ok := target.(*StripeError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewStripeError creates a new StripeError with the given code, message, and underlying error
func NewStripeError(code, message string, err error) *StripeError {
	return &StripeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// newAPIError converts an error returned by stripe-go into a StripeError. When
// Stripe answered with an error object, its own message is kept as Message,
// so callers can show exactly what Stripe reported.
func newAPIError(message string, err error) *StripeError {
	var apiErr *stripeapi.Error
	if errors.As(err, &apiErr) {
		stripeErr := NewStripeError("api_call_failed", message, err)
		if apiErr.Msg != "" {
			stripeErr.Message = apiErr.Msg
		}
		stripeErr.Type = string(apiErr.Type)
		switch {
		case apiErr.Type == stripeapi.ErrorTypeAPI:
			stripeErr.Code = "temporary_error"
		case apiErr.HTTPStatusCode == 429:
			stripeErr.Code = "rate_limit_error"
		}
		return stripeErr
	}
	return NewStripeError("api_connection_error", message, err)
}

// ProviderMessage returns the message that should be shown to the caller for
// err: the Stripe message when err is a StripeError, err.Error() otherwise.
func ProviderMessage(err error) string {
	var stripeErr *StripeError
	if errors.As(err, &stripeErr) {
		if stripeErr.Err != nil && stripeErr.Code == "api_connection_error" {
			return stripeErr.Err.Error()
		}
		return stripeErr.Message
	}
	return err.Error()
}

// IsRetryableError determines if an error is retryable
func IsRetryableError(err error) bool {
	var stripeErr *StripeError
	if errors.As(err, &stripeErr) {
		switch stripeErr.Code {
		case "rate_limit_error", "temporary_error", "api_connection_error":
			return true
		default:
			return false
		}
	}
	return false
}

// IsTemporaryError determines if an error is temporary
func IsTemporaryError(err error) bool {
	var stripeErr *StripeError
	if errors.As(err, &stripeErr) {
		switch stripeErr.Code {
		case "rate_limit_error", "temporary_error":
			return true
		default:
			return false
		}
	}
	return false
}
