package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"kvitto/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrReceiptNotFound, http.StatusNotFound, "RECEIPT_NOT_FOUND"},
		{domain.ErrCommentNotFound, http.StatusNotFound, "COMMENT_NOT_FOUND"},
		{domain.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{domain.ErrInvalidPrice, http.StatusBadRequest, "INVALID_PRICE"},
		{domain.ErrEmptyFile, http.StatusBadRequest, "EMPTY_FILE"},
		{domain.ErrCommentTooLong, http.StatusBadRequest, "COMMENT_TOO_LONG"},
		{domain.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{errors.New("anything else"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		status, code, msg := MapDomainError(tc.err)
		assert.Equal(t, tc.status, status, tc.code)
		assert.Equal(t, tc.code, code)
		assert.NotEmpty(t, msg)
	}
}

func TestMapDomainError_Wrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("creating receipt"), domain.ErrReceiptNotFound)
	status, code, _ := MapDomainError(wrapped)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "RECEIPT_NOT_FOUND", code)
}
