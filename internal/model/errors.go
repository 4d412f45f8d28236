package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any network call when no API key is configured
	ErrMissingCredential = errors.New("API key not set: set the API_KEY environment variable")

	// ErrEmptyInput is returned when a required keyword is blank
	ErrEmptyInput = errors.New("please enter a keyword")

	// ErrInvalidInput is the parent of every ValidationError
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports a user parameter outside its allowed range
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// UpstreamError wraps a failed call to an external API and names the operation
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err should be shown as a validation warning
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrInvalidInput)
}

// IsUpstream reports whether err came from an external API call
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
