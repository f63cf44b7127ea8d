package domain

import "errors"

var (
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrInvalidPrice   = errors.New("declared price must be greater than 0 and at most 999999.99")
	ErrEmptyFile      = errors.New("uploaded file is empty")
	ErrCommentTooLong = errors.New("comment text exceeds maximum length")
	ErrEmptyComment   = errors.New("comment text is empty")
	ErrInvalidStatus  = errors.New("invalid receipt status")
	ErrInvalidRole    = errors.New("invalid user role")
	ErrDuplicateEmail = errors.New("email already exists")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
)
