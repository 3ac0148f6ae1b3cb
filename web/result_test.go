package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Status(t *testing.T) {
	tests := []struct {
		name string
		res  *Result
		want int
	}{
		{"ok", OK("x"), http.StatusOK},
		{"created", Created("x"), http.StatusCreated},
		{"no content", NoContent(), http.StatusNoContent},
		{"explicit", WithStatus(http.StatusAccepted, nil), http.StatusAccepted},
		{"zero with body", &Result{Body: "x"}, http.StatusOK},
		{"zero without body", &Result{}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.status())
		})
	}
}

func TestBodyless(t *testing.T) {
	assert.True(t, bodyless(http.StatusNoContent))
	assert.True(t, bodyless(http.StatusNotModified))
	assert.True(t, bodyless(http.StatusContinue))
	assert.False(t, bodyless(http.StatusOK))
	assert.False(t, bodyless(http.StatusNotFound))
}

func TestHTTPError(t *testing.T) {
	err := ErrNotFound.WithMessage("user not found")
	assert.Equal(t, "user not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode())
	assert.Equal(t, "Not Found", ErrNotFound.Message)
}
