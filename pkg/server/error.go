package server

import (
	"errors"
	"fmt"
)

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

// ErrorCode returns the code of the first *Error in err's chain, or nil.
func ErrorCode(err error) error {
	var ierr *Error
	if !errors.As(err, &ierr) {
		return nil
	}
	return ierr.Code()
}

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
	// ErrParse will throw if a graph file has a malformed header or numeric field
	ErrParse = errors.New("malformed graph input")
	// ErrIO will throw if a file cannot be read or written
	ErrIO = errors.New("i/o failure")
	// ErrConstruction will throw if a graph cannot be built from the requested parameters
	ErrConstruction = errors.New("graph construction is not feasible")
)

var MessageInternalServerError string = "internal server error"
