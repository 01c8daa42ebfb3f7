package apperrors

import (
	"net/http"
)

// ErrNotFound - 404 for a missing row, usually wrapping a repository sentinel
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrInvalidOperation - 400 for an operation that does not apply to the record
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrUpstreamUnavailable - the survey provider could not be reached; nothing was written
func ErrUpstreamUnavailable(err error, message string) *AppError {
	return Wrap(err, CodeUpstreamUnavailable, "survey", message, http.StatusInternalServerError)
}

// ErrDatabase - unexpected store failure
func ErrDatabase(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "database", "Database error", http.StatusInternalServerError)
}

var ErrMissingFields = New(
	CodeValidationFailed,
	"request",
	"Missing required fields",
	http.StatusBadRequest,
)
