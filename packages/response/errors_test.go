package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code ResponseCode
		want int
	}{
		{ParseError, http.StatusBadRequest},
		{InvalidParameter, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{InvalidState, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
		{Fail, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCodeOf_WrappedBusinessError(t *testing.T) {
	be := New(InvalidState, "文章状态不允许提交")
	wrapped := fmt.Errorf("submit: %w", be)

	assert.Equal(t, InvalidState, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, InvalidState))
	assert.False(t, IsCode(nil, InvalidState))
	assert.Equal(t, Internal, CodeOf(errors.New("boom")))
}

func TestBusinessError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	be := NewBusinessError(
		WithErrorCode(Internal),
		WithErrorMessage("保存失败"),
		WithError(cause),
	)

	assert.ErrorIs(t, be, cause)
	assert.Equal(t, "保存失败: connection reset", be.Error())
}
