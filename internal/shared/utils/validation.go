package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
	"github.com/subledger-inc/subledger/internal/shared/errors"
)

var validate *validator.Validate

// init initializes the validator
func init() {
	validate = validator.New()

	// Use JSON tag names for validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateStruct validates a struct and returns a user-friendly error
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return nil
	}

	var fieldMessages []string
	for _, fieldError := range validationErrors {
		fieldMessages = append(fieldMessages, getFieldErrorMessage(fieldError))
	}

	return errors.NewValidationError("Validation failed", fieldMessages...)
}

// getFieldErrorMessage returns a user-friendly error message for a field validation error
func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "datetime":
		return fmt.Sprintf("%s must match the format %s", field, param)
	case "numeric":
		return fmt.Sprintf("%s must be a valid number", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, tag)
	}
}

// ValidateCadence validates a cadence string against the closed set.
func ValidateCadence(cadence string) error {
	normalized := strings.ToLower(strings.TrimSpace(cadence))
	if normalized == "" {
		return errors.NewValidationError("cadence cannot be empty", "cadence")
	}
	if !vo.Cadence(normalized).IsValid() {
		return errors.NewValidationError(fmt.Sprintf("invalid cadence: %s", cadence), "cadence")
	}
	return nil
}

// ValidateStatus validates a subscription status string.
func ValidateStatus(status string) error {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return errors.NewValidationError("status cannot be empty", "status")
	}
	if !vo.SubscriptionStatus(normalized).IsValid() {
		return errors.NewValidationError(fmt.Sprintf("invalid subscription status: %s", status), "status")
	}
	return nil
}
