package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// currencyRegex matches three letter ISO 4217 currency codes, in any case.
var currencyRegex = regexp.MustCompile(`^[A-Za-z]{3}$`)

// Validator is a wrapper around the go-playground/validator package.
type Validator struct {
	validator *validator.Validate
}

// ValidationError represents an individual validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a slice of ValidationError.
type ValidationErrors []ValidationError

// Error returns a string representation of the validation errors.
func (ve ValidationErrors) Error() string {
	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return sb.String()
}

// New creates a new Validator instance. Fields are reported by their JSON
// name, so messages match what the client sent.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Register custom validation functions
	_ = v.RegisterValidation("currency", validateCurrency)

	return &Validator{
		validator: v,
	}
}

// Validate validates a struct using the validator package. Field failures are
// returned as ValidationErrors.
func (v *Validator) Validate(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	validationErrors := make(ValidationErrors, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldErr.Field(),
			Message: getErrorMessage(fieldErr),
		})
	}
	return validationErrors
}

// validateCurrency validates a currency code.
func validateCurrency(fl validator.FieldLevel) bool {
	// If the field is empty, it's valid (use required tag if it's required)
	if fl.Field().String() == "" {
		return true
	}
	return currencyRegex.MatchString(fl.Field().String())
}

// getErrorMessage returns a human-readable error message for a validation error.
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "url":
		return "Invalid URL format"
	case "currency":
		return "Invalid currency code (e.g. usd)"
	default:
		return fmt.Sprintf("Invalid value: %s", err.Tag())
	}
}
