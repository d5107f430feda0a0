package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure so callers (and the HTTP layer) can react
// without string-matching error messages.
type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeAlreadyMember    Code = "ALREADY_MEMBER"
	CodeConflict         Code = "CONFLICT" // reserved for optimistic concurrency, unused today
	CodeTimeout          Code = "TIMEOUT"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
)

// AppError carries a code, a human-readable message and an optional cause.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func NotFound(msg string) error { return New(CodeNotFound, msg) }

func InvalidArg(msg string) error { return New(CodeInvalidArgument, msg) }

func Forbidden(msg string) error { return New(CodePermissionDenied, msg) }

func AlreadyMember(msg string) error { return New(CodeAlreadyMember, msg) }

// StoreFailure wraps a raw store error, translating context deadline
// expiry into CodeTimeout so callers see a typed timeout.
func StoreFailure(msg string, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return Wrap(CodeTimeout, msg, cause)
	}
	return Wrap(CodeStoreUnavailable, msg, cause)
}

// CodeOf extracts the code from err, walking the wrap chain. Errors
// created outside this package report CodeUnknown.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// HTTPStatus maps an error code to the response status used by controllers.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeAlreadyMember, CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeStoreUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
