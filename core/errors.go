package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when a request payload fails business validation.
// Invalid holds raw validator errors which are translated when rendered.
type ValidationError struct {
	Err     error
	Fields  []FieldError
	Invalid validator.ValidationErrors
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

// WrapValidationErrors turns validator errors into a *ValidationError carrying msg.
// Any other error is returned as is.
func WrapValidationErrors(err error, msg string) error {
	if err == nil {
		return nil
	}
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		return &ValidationError{Err: errors.New(msg), Invalid: vErrs}
	}
	return err
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) HasFields() bool {
	return len(err.Fields) > 0 || len(err.Invalid) > 0
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
