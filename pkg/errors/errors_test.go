package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("product", "prod-1")

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "product")
	assert.Contains(t, err.Message, "prod-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("quantity must be positive")

	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConflict(t *testing.T) {
	err := Conflict("order submission already in progress")

	assert.Equal(t, "CONFLICT", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestInternal_WrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, cause)
}

func TestAppError_Error(t *testing.T) {
	err := &AppError{Code: "X", Message: "msg", Err: errors.New("cause")}
	assert.Equal(t, "X: msg: cause", err.Error())

	err = &AppError{Code: "X", Message: "msg"}
	assert.Equal(t, "X: msg", err.Error())
}

func TestWrap_PreservesSentinel(t *testing.T) {
	err := Wrap(ErrNotFound, "load cart")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "load cart")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Conflict("busy"), http.StatusConflict},
		{"wrapped not found", fmt.Errorf("get: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped invalid input", fmt.Errorf("parse: %w", ErrInvalidInput), http.StatusBadRequest},
		{"wrapped unavailable", fmt.Errorf("call: %w", ErrServiceUnavail), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
