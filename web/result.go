package web

import "net/http"

// Result is what a handler produces: the status it intends to send and the
// value to send. Body goes through the interceptor before it is encoded.
type Result struct {
	Status int
	Body   any
	Header http.Header
}

// OK returns a 200 result.
func OK(v any) *Result {
	return &Result{Status: http.StatusOK, Body: v}
}

// Created returns a 201 result.
func Created(v any) *Result {
	return &Result{Status: http.StatusCreated, Body: v}
}

// NoContent returns a 204 result with no body.
func NoContent() *Result {
	return &Result{Status: http.StatusNoContent}
}

// WithStatus returns a result with an explicit status.
func WithStatus(status int, v any) *Result {
	return &Result{Status: status, Body: v}
}

// SetHeader sets a response header and returns the result for chaining.
func (r *Result) SetHeader(key, value string) *Result {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// status resolves the status that will actually be written: an unset status
// is 200, or 204 when there is no body.
func (r *Result) status() int {
	if r.Status != 0 {
		return r.Status
	}
	if r.Body == nil {
		return http.StatusNoContent
	}
	return http.StatusOK
}

// bodyless reports whether status must not carry a body.
func bodyless(status int) bool {
	return status == http.StatusNoContent || status == http.StatusNotModified || (status >= 100 && status < 200)
}
