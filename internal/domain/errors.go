package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInfrastructure   = "INFRASTRUCTURE_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrEmptyQuery         = NewDomainError(ErrCodeValidation, "search query cannot be empty")
	ErrNamespaceRequired  = NewDomainError(ErrCodeValidation, "namespace is required")
	ErrInvalidChunkConfig = NewDomainError(ErrCodeValidation, "chunk overlap must be smaller than chunk size")
)

// Infrastructure errors abort a run before any mutation occurs.
var (
	ErrMissingAPIKey      = NewDomainError(ErrCodeInfrastructure, "embedding provider API key is not configured")
	ErrMissingDatabaseURL = NewDomainError(ErrCodeInfrastructure, "database URL is not configured")
)

// Operation errors
var (
	ErrSeedInProgress = NewDomainError(ErrCodeInvalidOperation, "a seed run is already in progress for this namespace")
)

// Authorization errors
var (
	ErrInvalidToken = NewDomainError(ErrCodeUnauthorized, "invalid api token")
)
