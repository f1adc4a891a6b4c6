// Copyright 2015-2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// Unwrap returns the embedded error.
func (e ErrNotFound) Unwrap() error {
	return e.Err
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrBadRequest is returned as an error when there is an error decoding
// HTTP headers or the request body.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// Unwrap returns the embedded error.
func (e ErrBadRequest) Unwrap() error {
	return e.Err
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// FromError populates an ErrorResponse to fill in its fields based
// on an error value.  The wrapper errors in this package are remapped
// to specific e.Error codes.
func (e *ErrorResponse) FromError(err error) {
	e.Message = err.Error()
	switch et := err.(type) {
	case ErrUnsupportedMediaType:
		e.Error = "ErrUnsupportedMediaType"
		e.Value = et.Type
	case ErrNotFound:
		e.Error = "ErrNotFound"
	case ErrBadRequest:
		e.Error = "ErrBadRequest"
	}
}

// ToError converts e back to an error.  The well-known codes produce
// the matching wrapper types; anything else becomes a plain error with
// e.Message text.
func (e *ErrorResponse) ToError() error {
	switch e.Error {
	case "ErrUnsupportedMediaType":
		return ErrUnsupportedMediaType{Type: e.Value}
	case "ErrNotFound":
		return ErrNotFound{Err: errors.New(e.Message)}
	case "ErrBadRequest":
		return ErrBadRequest{Err: errors.New(e.Message)}
	default:
		return errors.New(e.Message)
	}
}

// FromPanic populates an error response based on a panic.  Typical use
// is:
//
//     defer func() {
//         if obj := recover(); obj != nil {
//             resp := restdata.ErrorResponse{}
//             resp.FromPanic(obj)
//             // write resp out as makes sense
//         }
//    }
func (e *ErrorResponse) FromPanic(obj interface{}) {
	e.Error = "panic"
	if recoveredError, isError := obj.(error); isError {
		e.Message = recoveredError.Error()
	} else {
		e.Message = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	len := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:len])
}
