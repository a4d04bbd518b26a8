// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrSessionTimeout = errors.New("session timeout")
	ErrMailDelivery   = errors.New("mail delivery failed")
)

// User-facing message catalog. The wording is part of the API contract,
// so handlers reference these instead of inlining strings.
const (
	MsgBadInput        = "Bad input"
	MsgWeakPassword    = "Weak password"
	MsgWrongPassword   = "Wrong password"
	MsgSessionTimeout  = "Session timeout"
	MsgAccountExists   = "Account already exists for email"
	MsgAccountNotFound = "User not found"
	MsgAccountDeleted  = "Account deleted"
	MsgAccountBanned   = "Account banned"
	MsgUnverified      = "Unverified account"
	MsgMailNotSent     = "Account created but the verification email could not be sent. Request a new one via resend."
	MsgAccessDenied    = "User is not authenticated or does not have access"
	MsgInternal        = "An internal error has occured while processing this request"
)

type AppError struct {
	Err     error
	Message string
	Status  int
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Status:  status,
		Code:    code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func BadInputError(message string) *AppError {
	if message == "" {
		message = MsgBadInput
	}
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "BAD_INPUT")
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = MsgAccessDenied
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = MsgAccessDenied
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "ACCESS_DENIED")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusBadRequest,
		"DUPLICATE",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "invalid token", http.StatusBadRequest, "TOKEN_INVALID")
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "token expired", http.StatusBadRequest, "TOKEN_EXPIRED")
}

func SessionTimeoutError() *AppError {
	return NewAppError(
		ErrSessionTimeout,
		MsgSessionTimeout,
		http.StatusUnauthorized,
		"SESSION_TIMEOUT",
	)
}
