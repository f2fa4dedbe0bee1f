package dto

import (
	"net/http"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
)

// Transport error codes. Domain codes from shared are passed through as-is.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound: http.StatusNotFound,

	// Business rule violations -> 422 Unprocessable Entity
	shared.CodeInvalidState:                     http.StatusUnprocessableEntity,
	shared.CodeInsufficientStock:                http.StatusUnprocessableEntity,
	shared.CodeInsufficientStockForConfirmation: http.StatusUnprocessableEntity,
	shared.CodeQuantityExceeded:                 http.StatusUnprocessableEntity,

	shared.CodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,

	shared.CodeAlreadyExists:       http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,

	shared.CodeUnauthorized: http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:   http.StatusNotFound,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
