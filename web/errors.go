package web

import (
	"encoding/xml"
	"net/http"
)

// HTTPError is an error a handler returns to produce a specific error
// response. Handler errors bypass the interceptor.
type HTTPError struct {
	Status  int    // HTTP status code (not encoded)
	Code    string // Machine-readable error code
	Message string // Human-readable message
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// Predefined errors.
var (
	ErrBadRequest = HTTPError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: http.StatusText(http.StatusBadRequest),
	}

	ErrUnauthorized = HTTPError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized",
		Message: http.StatusText(http.StatusUnauthorized),
	}

	ErrForbidden = HTTPError{
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: http.StatusText(http.StatusForbidden),
	}

	ErrNotFound = HTTPError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: http.StatusText(http.StatusNotFound),
	}

	ErrConflict = HTTPError{
		Status:  http.StatusConflict,
		Code:    "conflict",
		Message: http.StatusText(http.StatusConflict),
	}

	ErrInternal = HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_server_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}
)

// errorBody is the encoded form of every error response.
type errorBody struct {
	XMLName xml.Name `json:"-" yaml:"-" bson:"-" msgpack:"-" xml:"error"`
	Code    string   `json:"code" yaml:"code" bson:"code" xml:"code"`
	Message string   `json:"message" yaml:"message" bson:"message" xml:"message"`
}

type statusCoder interface {
	StatusCode() int
}
