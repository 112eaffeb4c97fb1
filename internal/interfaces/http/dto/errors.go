package dto

import (
	"net/http"
	"strings"
)

// Error codes used by the HTTP layer itself. Domain codes come from
// shared.DomainError and the aggregates; they are mapped below.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes absent from the map fall through to the prefix rules in
// GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Auth and access
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"USER_DEACTIVATED":    http.StatusForbidden,
	"STORE_ACCESS_DENIED": http.StatusForbidden,

	// A store must be selected before store-scoped operations proceed.
	// 428 tells the SPA to open the store picker.
	"STORE_SELECTION_REQUIRED": http.StatusPreconditionRequired,
	"STORE_REQUIRED":           http.StatusPreconditionRequired,

	// Resources
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	// Business rules
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,
	"INSUFFICIENT_BALANCE": http.StatusUnprocessableEntity,
	"EMPTY_CART":           http.StatusUnprocessableEntity,
	"UNKNOWN_PRODUCT":      http.StatusUnprocessableEntity,
	"PRODUCT_INACTIVE":     http.StatusUnprocessableEntity,
	"STUDENT_REQUIRED":     http.StatusUnprocessableEntity,
	"STUDENT_INACTIVE":     http.StatusUnprocessableEntity,
	"PASSWORD_HASH_ERROR":  http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// INVALID_* codes are input validation failures from the aggregates
// (INVALID_NAME, INVALID_PRICE, INVALID_AMOUNT, ...) and map to 400.
// Any other unmapped domain code is a business rule violation and maps
// to 422 rather than hiding behind a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
