package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindInvalidOperation Kind = "invalid_operation"
	KindConflict         Kind = "conflict"
	KindInternal         Kind = "internal"
)

// Error carries a machine-readable kind alongside the human message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func NotFound(msg string) error         { return &Error{Kind: KindNotFound, Message: msg} }
func Validation(msg string) error       { return &Error{Kind: KindValidation, Message: msg} }
func InvalidOperation(msg string) error { return &Error{Kind: KindInvalidOperation, Message: msg} }
func Conflict(msg string) error         { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps a storage/transport failure so the original error stays
// reachable through errors.Unwrap.
func Internal(msg string, cause error) error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "server error"
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidOperation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
