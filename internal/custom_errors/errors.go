package custom_errors

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")

	ErrPostValidation     = errors.New("post validation failed")
	ErrCommentValidation  = errors.New("comment validation failed")
	ErrInvalidImageFormat = errors.New("uploaded file is not a valid image")

	ErrForbidden       = errors.New("operation forbidden")
	ErrUnauthenticated = errors.New("authentication required")

	ErrGroupAlreadyExists = errors.New("group already exists")

	ErrDatabaseQuery = errors.New("database query error")
	ErrDatabaseScan  = errors.New("database scan error")

	ErrCacheMiss    = errors.New("cache miss")
	ErrMediaSave    = errors.New("failed to save media file")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoUpdateRows = errors.New("no fields to update")
)
