package types

import "errors"

// Error kinds shared by storage, services and handlers. Callers wrap them
// with context and match with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrStorageNotConfigured = errors.New("storage not configured")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidLocation      = errors.New("invalid location")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidCredentials   = errors.New("invalid username or password")
)
