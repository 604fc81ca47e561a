package errors

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCredentials = errors.New("username and password are required")
	ErrMissingToken     = errors.New("login response did not contain a token")
	ErrMissingFields    = errors.New("login response is missing required fields")
	ErrSessionExpired   = errors.New("session is invalid or expired")
	ErrNoSession        = errors.New("no active session, please log in first")

	ErrInvalidInput  = errors.New("invalid input data")
	ErrClientMissing = errors.New("client not found")
)

// Error codes used across the console. VALIDATION_ERROR is raised before any
// network call; NETWORK_ERROR wraps transport failures; HTTP_ERROR carries a
// non-OK backend status; BAD_RESPONSE covers unparseable bodies.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNetwork       = "NETWORK_ERROR"
	CodeHTTP          = "HTTP_ERROR"
	CodeBadResponse   = "BAD_RESPONSE"
	CodeMissingFields = "MISSING_FIELDS"
	CodeSession       = "SESSION_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Err     error
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

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the AppError code wrapped anywhere in err, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
