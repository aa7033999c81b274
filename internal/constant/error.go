package constant

import (
	"errors"
	"fmt"
)

// Error carries a stable numeric code alongside the message so handlers can
// map failures to HTTP statuses without string matching.
type Error interface {
	error
	Code() int
	Message() string
	WithData(data interface{}) Error
}

type CustomError struct {
	code    int
	message string
	data    interface{}
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.code, e.message)
}

func (e *CustomError) Code() int {
	return e.code
}

func (e *CustomError) Message() string {
	return e.message
}

func (e *CustomError) Data() interface{} {
	return e.data
}

func (e *CustomError) WithData(data interface{}) Error {
	e.data = data
	return e
}

func NewError(code int) Error {
	if msg, exists := ErrorMessages[code]; exists {
		return &CustomError{code: code, message: msg}
	}
	return &CustomError{code: code, message: "unknown error"}
}

// Wrap attaches a cause to a coded error, keeping the code reachable via CodeOf.
func Wrap(code int, cause error) Error {
	e := NewError(code)
	if cause != nil {
		return &CustomError{code: e.Code(), message: e.Message() + ": " + cause.Error()}
	}
	return e
}

// CodeOf extracts the numeric code from any error in the chain,
// falling back to CodeSystemError.
func CodeOf(err error) int {
	var ce Error
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return CodeSystemError
}

func GetErrorMessage(code int) (string, bool) {
	msg, exists := ErrorMessages[code]
	return msg, exists
}
