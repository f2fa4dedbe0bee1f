package shared

import "errors"

// Error codes shared across bounded contexts
const (
	CodeNotFound                         = "NOT_FOUND"
	CodeAlreadyExists                    = "ALREADY_EXISTS"
	CodeValidation                       = "VALIDATION_ERROR"
	CodeInvalidState                     = "INVALID_STATE"
	CodeInsufficientStock                = "INSUFFICIENT_STOCK"
	CodeInsufficientStockForConfirmation = "INSUFFICIENT_STOCK_FOR_CONFIRMATION"
	CodeQuantityExceeded                 = "QUANTITY_EXCEEDED"
	CodeConcurrencyConflict              = "CONCURRENCY_CONFLICT"
	CodeUnauthorized                     = "UNAUTHORIZED"
	CodeForbidden                        = "FORBIDDEN"
)

// DomainError represents a domain-level error.
// Details carries structured context (quantities, ids) for the caller.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetails returns a copy of the error with structured details attached
func (e *DomainError) WithDetails(details any) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR with the given message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError creates a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// NewInvalidStateError creates an INVALID_STATE error with the given message
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(CodeInvalidState, message)
}

// Common domain errors
var (
	ErrNotFound                         = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists                    = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrValidation                       = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict              = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized                     = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden                        = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState                     = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock                = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrInsufficientStockForConfirmation = NewDomainError(CodeInsufficientStockForConfirmation, "Insufficient stock to confirm invoice")
	ErrQuantityExceeded                 = NewDomainError(CodeQuantityExceeded, "Requested quantity exceeds what remains returnable")
)

// AsDomainError extracts a DomainError from an error chain
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
