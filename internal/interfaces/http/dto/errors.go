package dto

import (
	"net/http"
	"strings"

	"github.com/mead/backend/internal/domain/shared"
)

// Transport error codes. Domain codes are passed through unchanged.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "INVALID_TOKEN"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeSelfFollow      = "SELF_FOLLOW"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInvalidID:       http.StatusBadRequest,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	shared.CodeNotFound:                   http.StatusNotFound,
	shared.CodeAlreadyExists:              http.StatusConflict,
	shared.CodeInvalidInput:               http.StatusBadRequest,
	shared.CodeInvalidQuantity:            http.StatusBadRequest,
	shared.CodeConcurrentModification:     http.StatusConflict,
	shared.CodeUnauthorized:               http.StatusUnauthorized,
	shared.CodeForbidden:                  http.StatusForbidden,
	shared.CodeInvalidState:               http.StatusUnprocessableEntity,
	shared.CodeReferenceResolutionFailure: http.StatusUnprocessableEntity,
	shared.CodePartialFanoutFailure:       http.StatusMultiStatus,
	ErrCodeEmptyCart:                      http.StatusUnprocessableEntity,
	ErrCodeSelfFollow:                     http.StatusUnprocessableEntity,
	"PASSWORD_HASH_ERROR":                 http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code.
// Unlisted INVALID_* codes are input errors; any other unlisted code is a
// business rule violation.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
