package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/princekumarofficial/autohouse-service/internal/types"
	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
)

// Backend is a destination for file bytes.
type Backend interface {
	Type() mediaTypes.StorageType
	// IsConfigured reports whether the backend has what it needs to run
	// (credentials, a root folder, a database handle).
	IsConfigured() bool
	Store(ctx context.Context, file mediaTypes.MediaFile, r io.Reader) error
	Retrieve(ctx context.Context, file mediaTypes.MediaFile, w io.Writer) error
	Remove(ctx context.Context, file mediaTypes.MediaFile) error
}

// StorageNotConfiguredError names the storage type that was asked for.
type StorageNotConfiguredError struct {
	Type mediaTypes.StorageType
}

func (e *StorageNotConfiguredError) Error() string {
	return fmt.Sprintf("storage is not configured: %s", e.Type)
}

func (e *StorageNotConfiguredError) Is(target error) bool {
	return target == types.ErrStorageNotConfigured
}

// IsNotConfigured reports whether err came from a missing backend.
func IsNotConfigured(err error) bool {
	var e *StorageNotConfiguredError
	return errors.As(err, &e)
}
