package dto

import (
	"net/http"

	"github.com/travel/backend/internal/domain/shared"
)

// Transport-only error codes. Domain errors carry their own codes.
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
)

// KindHTTPStatus maps each error kind onto exactly one status code
var KindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindInvalidArgument: http.StatusBadRequest,
	shared.KindUnauthenticated: http.StatusUnauthorized,
	shared.KindForbidden:       http.StatusForbidden,
	shared.KindNotFound:        http.StatusNotFound,
	shared.KindConflict:        http.StatusConflict,
	shared.KindInternal:        http.StatusInternalServerError,
}

// HTTPStatus returns the status code for kind. Unknown kinds are 500.
func HTTPStatus(kind shared.ErrorKind) int {
	if status, ok := KindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError builds the error body for err. Internal errors never expose
// their cause to the client.
func FromError(err error, requestID string) (int, ErrorInfo) {
	domainErr := shared.AsDomainError(err)
	info := ErrorInfo{
		Kind:          string(domainErr.Kind),
		Code:          domainErr.Code,
		Message:       domainErr.Message,
		RequestID:     requestID,
		RequiredRoles: domainErr.RequiredRoles,
		Retryable:     domainErr.Retryable,
	}
	if domainErr.Kind == shared.KindInternal {
		info.Message = shared.ErrInternal.Message
	}
	return HTTPStatus(domainErr.Kind), info
}
