package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := E(CodeUnavailable, "ExecutionService.Execute", "code execution failed", cause)

	assert.Equal(t, "ExecutionService.Execute: code execution failed: connection refused", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := E(CodeNotFound, "RoomService.Notes", "room not found", ErrNotFound)

	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeInternal))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))

	// Wrapping keeps the code reachable.
	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, IsCode(wrapped, CodeNotFound))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(E(tt.code, "op", "msg", nil)), string(tt.code))
	}

	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
