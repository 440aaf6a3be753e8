// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package validation wraps go-playground/validator with a shared instance
// and readable error messages.
//
// Field names in messages follow the koanf (or json) tag of the field so a
// config error reads the same way the setting is spelled in YAML:
//
//	recommend.threshold must be greater than or equal to 0
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the dotted path of the failing field.
func (e *FieldError) Field() string { return e.field }

// Tag returns the failed rule, e.g. "gte".
func (e *FieldError) Tag() string { return e.tag }

// Param returns the rule parameter, e.g. "100" for "max=100".
func (e *FieldError) Param() string { return e.param }

// Value returns the rejected value.
func (e *FieldError) Value() interface{} { return e.value }

func (e *FieldError) Error() string { return e.message }

// ValidationError collects every failed rule of one struct.
type ValidationError struct {
	errors []FieldError
}

// Errors returns the individual field errors.
func (ve *ValidationError) Errors() []FieldError {
	return ve.errors
}

func (ve *ValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.errors))
	for i := range ve.errors {
		messages = append(messages, ve.errors[i].message)
	}
	return strings.Join(messages, "; ")
}

// HasField reports whether field (dotted path) failed validation.
func (ve *ValidationError) HasField(field string) bool {
	for i := range ve.errors {
		if ve.errors[i].field == field {
			return true
		}
	}
	return false
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(tagName)
	})
	return validate
}

// tagName prefers the koanf tag, then json, then the Go field name.
func tagName(fld reflect.StructField) string {
	for _, key := range []string{"koanf", "json"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// ValidateStruct validates s and returns nil or a *ValidationError.
//
// The return type is error rather than *ValidationError so a nil result is
// a true nil interface.
func ValidateStruct(s interface{}) error {
	return toValidationError(GetValidator().Struct(s))
}

// ValidateFields validates only the named fields of s. Names are Go field
// names, dotted for nested structs.
func ValidateFields(s interface{}, fields ...string) error {
	return toValidationError(GetValidator().StructPartial(s, fields...))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &ValidationError{errors: []FieldError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		field := fieldPath(fe.Namespace())
		fieldErrors[i] = FieldError{
			field:   field,
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: translateError(fe, field),
		}
	}
	return &ValidationError{errors: fieldErrors}
}

// fieldPath drops the top-level struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

var errorMessageTemplates = map[string]string{
	"required":      "%s is required",
	"url":           "%s must be a valid URL",
	"hostname_port": "%s must be a host:port address",
}

var errorMessageWithParam = map[string]string{
	"oneof":    "%s must be one of: %s",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"gt":       "%s must be greater than %s",
	"lt":       "%s must be less than %s",
	"gtfield":  "%s must be greater than %s",
	"ltefield": "%s must be less than or equal to %s",
	"datetime": "%s must be a date in layout %s",
}

func translateError(fe validator.FieldError, field string) string {
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind() == reflect.String
	isSlice := fe.Kind() == reflect.Slice
	switch tag {
	case "min":
		switch {
		case isString:
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		case isSlice:
			return fmt.Sprintf("%s must contain at least %s items", field, param)
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
