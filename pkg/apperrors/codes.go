package apperrors

// ErrorCode - machine readable error code sent in the envelope
type ErrorCode string

const (
	// System
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError       ErrorCode = "DATABASE_ERROR"
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"

	// Business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Auth
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
)
