package b64upload

import (
	"fmt"
)

// Codes of Error, telling which step of an upload failed
const (
	ErrCodeUnknownError = 1
	ErrCodeInvalidInput = 2
	ErrCodeBadOptions   = 3
	ErrCodeTransport    = 4
)

var (
	// ErrInvalidDataURI is returned, possibly wrapping the cause, when the input
	// is not a well formed base64 data URI
	ErrInvalidDataURI = &Error{
		Code:        ErrCodeInvalidInput,
		Description: "invalid input string",
	}

	// ErrMissingURL is returned when neither the options nor the client name a destination
	ErrMissingURL = &Error{
		Code:        ErrCodeBadOptions,
		Description: "missing upload url",
	}
)

// Error is an upload failure. Code tells which step failed:
//
//   ErrCodeInvalidInput  the data URI could not be decoded, nothing was sent
//   ErrCodeBadOptions    the options were unusable, nothing was sent
//   ErrCodeTransport     the request failed on the wire or was cancelled
//
// Replies the server sent back are never reported as an Error.
type Error struct {
	Code        uint8
	Description string
	cause       error
}

func (err *Error) Error() string {
	if err.cause != nil {
		return fmt.Sprintf("%d|%s: %v", err.Code, err.Description, err.cause)
	}
	return fmt.Sprintf("%d|%s", err.Code, err.Description)
}

func (err *Error) Unwrap() error {
	return err.cause
}

// Is matches errors by code and description so that wrapped sentinel errors
// compare equal to their sentinel.
func (err *Error) Is(target error) bool {
	typed, ok := target.(*Error)
	if !ok {
		return false
	}
	return typed.Code == err.Code && typed.Description == err.Description
}

func (err *Error) wrap(cause error) *Error {
	return &Error{Code: err.Code, Description: err.Description, cause: cause}
}

func invalidInput(format string, args ...interface{}) *Error {
	return ErrInvalidDataURI.wrap(fmt.Errorf(format, args...))
}

func badOptions(format string, args ...interface{}) *Error {
	return &Error{Code: ErrCodeBadOptions, Description: fmt.Sprintf(format, args...)}
}

func transportError(url string, cause error) *Error {
	return &Error{Code: ErrCodeTransport, Description: "unable to upload to " + url, cause: cause}
}

// TypedError converts any error into an *Error, nil stays nil
func TypedError(err error) *Error {
	if err == nil {
		return nil
	}
	typed, ok := err.(*Error)
	if ok {
		return typed
	}
	return &Error{Code: ErrCodeUnknownError, Description: err.Error()}
}
