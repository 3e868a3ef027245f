package utils

import "fmt"

// ErrorKind classifies a failure so callers can branch on the class of
// error (retryable connectivity vs terminal validation) without matching
// message strings.
type ErrorKind int

const (
	KindValidation  ErrorKind = iota // bad input shape or range
	KindNotFound                     // missing record, or not owned by the caller
	KindConflict                     // operation invalid for the current status
	KindUnauthorized                 // missing or invalid credentials
	KindGateway                      // payment gateway rejected the request
	KindUnavailable                  // upstream connectivity failure, retryable
	KindInternal                     // persistence or other server-side failure
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error // wrapped cause, not exposed to clients
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func Validation(msg string) *AppError   { return &AppError{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *AppError     { return &AppError{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *AppError     { return &AppError{Kind: KindConflict, Message: msg} }
func Unauthorized(msg string) *AppError { return &AppError{Kind: KindUnauthorized, Message: msg} }

func Gateway(msg string, err error) *AppError {
	return &AppError{Kind: KindGateway, Message: msg, Err: err}
}

func Unavailable(msg string, err error) *AppError {
	return &AppError{Kind: KindUnavailable, Message: msg, Err: err}
}

func Internal(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}
