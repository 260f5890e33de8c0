// Package errors provides custom error types and definitions for the application.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Every failure of the tip payment endpoint is reported to the caller with the
// same envelope and HTTP Status 500, so HTTPstatus does not distinguish error
// kinds. The Code does, and it is what clients and logs should match on.
//
// NEVER change any of the current error codes, only append new errors after the current last one.
// If you notice there's a gap, DON'T fill it in, that code was used in the past and shouldn't be reused.
var (
	// Request errors
	ErrMalformedBody    = Error{Code: 40004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("invalid JSON request body"), LogLevel: "info"}
	ErrInvalidTipAmount = Error{Code: 40040, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("invalid tip amount"), LogLevel: "info"}

	// Server errors
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: operation failed"), LogLevel: "error"}
	ErrStripeError                = Error{Code: 50005, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: payment processing failed"), LogLevel: "error"}
	ErrPaymentsNotConfigured      = Error{Code: 50009, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("stripe secret key is not set"), LogLevel: "error"}
)
