package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNoSelection          = errors.New("no file selected")
	ErrExtractionInFlight   = errors.New("extraction already in progress")
	ErrSaveInFlight         = errors.New("save already in progress")
	ErrConfirmationPending  = errors.New("confirmation pending")
	ErrNoConfirmation       = errors.New("no confirmation pending")
	ErrEditorClosed         = errors.New("editor is not open")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidPhone         = errors.New("invalid phone number")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// MissingFieldError names the first blank required field of a draft.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// ExtractionErrorKind classifies extraction failures.
type ExtractionErrorKind string

const (
	ExtractionNetwork   ExtractionErrorKind = "network"
	ExtractionStatus    ExtractionErrorKind = "status"
	ExtractionMalformed ExtractionErrorKind = "malformed"
)

// ExtractionError is a recoverable failure of the extraction webhook. RawBody keeps
// the response text when it could not be decoded.
type ExtractionError struct {
	Kind       ExtractionErrorKind
	StatusCode int
	RawBody    string
	Cause      error
}

func (e *ExtractionError) Error() string {
	switch e.Kind {
	case ExtractionStatus:
		return fmt.Sprintf("extraction failed: webhook returned status %d", e.StatusCode)
	case ExtractionMalformed:
		return "extraction failed: response is not valid JSON"
	default:
		if e.Cause != nil {
			return fmt.Sprintf("extraction failed: %v", e.Cause)
		}
		return "extraction failed"
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
