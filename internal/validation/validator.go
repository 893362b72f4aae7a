// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxMovieIDLength bounds the length of a movie identifier accepted on the wire.
const MaxMovieIDLength = 128

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule, addressed by struct namespace
// (for example "Config.Embedding.BatchSize").
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

func (e FieldError) Error() string { return e.Message }

// Errors is returned by ValidateStruct when at least one rule fails.
type Errors []FieldError

func (es Errors) Error() string {
	if len(es) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// GetValidator returns the process-wide validator with custom rules registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails on an empty tag name.
		_ = validate.RegisterValidation("movieid", func(fl validator.FieldLevel) bool {
			return IsValidMovieID(fl.Field().String())
		})
	})
	return validate
}

// IsValidMovieID reports whether id is non-blank, printable, at most
// MaxMovieIDLength bytes and free of path separators, which keeps it usable
// as a cache key and a URL path segment.
func IsValidMovieID(id string) bool {
	if strings.TrimSpace(id) == "" || len(id) > MaxMovieIDLength {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return r == '/' || r == '\\' || !unicode.IsPrint(r)
	}) < 0
}

// ValidateStruct runs the struct's validate tags. It returns nil or Errors.
// A non-struct argument yields the validator's own error unchanged.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe),
		}
	}
	return out
}

// message renders a FieldError in plain English.
func message(fe validator.FieldError) string {
	field, param := fe.Namespace(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "url", "http_url":
		return field + " must be a valid http(s) URL"
	case "hostname":
		return field + " must be a valid hostname"
	case "movieid":
		return field + " must be a non-blank printable identifier without path separators"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
