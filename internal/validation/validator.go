// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with the custom
// validators used by service requests.
//
// Features:
//   - Singleton validator instance (thread-safe, caches struct info)
//   - weather_field: value must name one of the aggregated weather columns
//   - Field names in messages follow the request's json tags
//   - Uses WithRequiredStructEnabled option (v11+ compatibility)
//
// Example usage:
//
//	type CompareRequest struct {
//	    WineID  int64 `json:"wine_id" validate:"gte=1"`
//	    NbWines int   `json:"nb_wines" validate:"gte=0,lte=500"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    return fmt.Errorf("invalid request: %w", err)
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/vintner/internal/weather"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError represents a single field validation error with structured information.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the request field name that failed validation.
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "100" for "max=100").
func (e *ValidationError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *ValidationError) Value() interface{} {
	return e.value
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	return e.message
}

// RequestValidationError represents a collection of validation errors.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the slice of validation errors.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error implements the error interface, returning a combined error message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	var messages []string
	for _, err := range ve.errors {
		messages = append(messages, err.Error())
	}

	return strings.Join(messages, "; ")
}

// Details returns per-field messages keyed by field name, for CLI and log output.
// Several messages for one field are joined with "; " in the order they were raised.
func (ve *RequestValidationError) Details() map[string]string {
	details := make(map[string]string, len(ve.errors))
	for _, err := range ve.errors {
		if prev, ok := details[err.field]; ok {
			details[err.field] = prev + "; " + err.message
			continue
		}
		details[err.field] = err.message
	}
	return details
}

// GetValidator returns the singleton validator instance.
// The validator is initialized once with custom validators and options.
// This function is thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(jsonTagName)

		// Registration only fails on an empty tag or nil func
		_ = validate.RegisterValidation("weather_field", validateWeatherField) //nolint:errcheck
	})

	return validate
}

// jsonTagName reports fields under their json name so messages match request payloads.
func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func validateWeatherField(fl validator.FieldLevel) bool {
	_, err := weather.ParseField(fl.Field().String())
	return err == nil
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or *RequestValidationError if validation fails.
func ValidateStruct(s interface{}) *RequestValidationError {
	return fromValidator(GetValidator().Struct(s), "")
}

// ValidateVar validates one value against a tag assembled at runtime, such as
// bounds taken from configuration. Failures are reported under name.
func ValidateVar(name string, value interface{}, tag string) *RequestValidationError {
	return fromValidator(GetValidator().Var(value, tag), name)
}

// Merge combines validation results, skipping nils. It returns nil when nothing failed.
func Merge(results ...*RequestValidationError) *RequestValidationError {
	var merged []ValidationError
	for _, r := range results {
		if r != nil {
			merged = append(merged, r.errors...)
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return &RequestValidationError{errors: merged}
}

// fromValidator converts a validator result. A non-empty name overrides the field name.
func fromValidator(err error, name string) *RequestValidationError {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// Unexpected error type - wrap it
		return &RequestValidationError{
			errors: []ValidationError{
				{
					field:   "unknown",
					tag:     "unknown",
					message: err.Error(),
				},
			},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		field := fieldErr.Field()
		if name != "" {
			field = name
		}
		fieldErrors[i] = ValidationError{
			field:   field,
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr, field),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":      "%s is required",
	"weather_field": "%s must be a known weather field",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof":    "%s must be one of: %s",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"gt":       "%s must be greater than %s",
	"lt":       "%s must be less than %s",
	"gtefield": "%s must be greater than or equal to %s",
	"ltefield": "%s must be less than or equal to %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError, field string) string {
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind().String() == "string"

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
