package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeDuplicate, http.StatusConflict},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("entry %s not found", "abc")
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))

	wrapped := fmt.Errorf("get entry: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestError_CauseAndDetails(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, CodeInternal, "read library")
	assert.Equal(t, "read library: unexpected EOF", err.Error())
	assert.True(t, Is(err, io.ErrUnexpectedEOF))

	d := Duplicatef("%q exists", "Heat").WithDetails(map[string]int{"year": 1995})
	assert.Equal(t, CodeDuplicate, d.Code)
	assert.Equal(t, map[string]int{"year": 1995}, d.Details)
	assert.Equal(t, http.StatusConflict, d.HTTPStatus())
}
