package utils

import (
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// Analysis specific errors

// NewInvalidInputError indicates a required text field was empty or missing
// before any external call was made
func NewInvalidInputError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Invalid input",
		Detail:  detail,
	}
}

// NewExtractionFailedError indicates the external analysis call failed or
// returned unparseable data
func NewExtractionFailedError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: "Keyword extraction failed",
		Detail:  detail,
	}
}

// NewMissingSourceError indicates tailoring was invoked without a valid
// analysis or with nothing to tailor against
func NewMissingSourceError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Missing tailoring source",
		Detail:  detail,
	}
}

// NewPersistenceFailedError indicates the storage collaborator rejected a write
func NewPersistenceFailedError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: "Persistence failed",
		Detail:  detail,
	}
}

// NewNotFoundError indicates the requested record does not exist
func NewNotFoundError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: "Record not found",
		Detail:  detail,
	}
}
