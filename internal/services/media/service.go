package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
)

type Service struct {
	files            storage.MediaFiles
	registry         *Registry
	allowedMimeTypes []string
}

// NewService creates a new media service instance. An empty allow list
// accepts every content type.
func NewService(files storage.MediaFiles, registry *Registry, allowedMimeTypes []string) *Service {
	return &Service{
		files:            files,
		registry:         registry,
		allowedMimeTypes: allowedMimeTypes,
	}
}

// ValidateContentType checks if the content type is allowed
func (s *Service) ValidateContentType(contentType string) bool {
	if len(s.allowedMimeTypes) == 0 {
		return true
	}
	for _, allowed := range s.allowedMimeTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

// Store writes the bytes to the backend chosen for the request's function and
// records the metadata row. When the backend fails the error is returned and
// the metadata is rolled back: a row created by this call is removed, a row
// that already existed for the same key is restored as it was.
func (s *Service) Store(ctx context.Context, req mediaTypes.StoreRequest) (mediaTypes.MediaFile, error) {
	if !s.ValidateContentType(req.ContentType) {
		return mediaTypes.MediaFile{}, fmt.Errorf("content type %s: %w", req.ContentType, types.ErrUnsupportedMediaType)
	}

	backend, err := s.registry.GetOrFallback(req.Function.StorageType())
	if err != nil {
		return mediaTypes.MediaFile{}, err
	}

	bucket := req.Function.BucketName()
	previous, err := s.files.GetMediaFileByKey(ctx, bucket, req.FileKey)
	existed := err == nil
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return mediaTypes.MediaFile{}, err
	}

	file := mediaTypes.MediaFile{
		Bucket:           bucket,
		StorageType:      backend.Type(),
		ContentType:      req.ContentType,
		Size:             int64(len(req.Data)),
		FileKey:          req.FileKey,
		OriginalFilename: req.OriginalFilename,
		ReferenceID:      req.ReferenceID,
	}
	if err := s.files.SaveMediaFile(ctx, &file); err != nil {
		return mediaTypes.MediaFile{}, err
	}

	if err := backend.Store(ctx, file, bytes.NewReader(req.Data)); err != nil {
		if existed {
			if restoreErr := s.files.SaveMediaFile(ctx, &previous); restoreErr != nil {
				slog.Error("Failed to restore media row after store failure", "id", previous.ID, "error", restoreErr)
			}
		} else if delErr := s.files.DeleteMediaFile(ctx, file.ID); delErr != nil {
			slog.Error("Failed to delete media row after store failure", "id", file.ID, "error", delErr)
		}
		return mediaTypes.MediaFile{}, fmt.Errorf("store %s/%s in %s: %w", bucket, req.FileKey, backend.Type(), err)
	}

	slog.Debug("Stored media file", "id", file.ID, "bucket", bucket, "key", file.FileKey, "storage", file.StorageType)
	return file, nil
}

func (s *Service) Load(ctx context.Context, id uuid.UUID) (mediaTypes.MediaFile, error) {
	return s.files.GetMediaFile(ctx, id)
}

func (s *Service) LoadForReference(ctx context.Context, referenceID uuid.UUID) ([]mediaTypes.MediaFile, error) {
	return s.files.ListMediaFilesByReference(ctx, referenceID)
}

func (s *Service) LoadByKey(ctx context.Context, function mediaTypes.Function, fileKey string) (mediaTypes.MediaFile, error) {
	return s.files.GetMediaFileByKey(ctx, function.BucketName(), fileKey)
}

func (s *Service) Exists(ctx context.Context, function mediaTypes.Function, fileKey string) (bool, error) {
	return s.files.MediaFileExists(ctx, function.BucketName(), fileKey)
}

// WriteTo streams the file's bytes from the backend that stored them.
func (s *Service) WriteTo(ctx context.Context, file mediaTypes.MediaFile, w io.Writer) error {
	backend, err := s.registry.Get(file.StorageType)
	if err != nil {
		return err
	}
	return backend.Retrieve(ctx, file, w)
}

// Bytes loads the file's content into memory.
func (s *Service) Bytes(ctx context.Context, id uuid.UUID) ([]byte, mediaTypes.MediaFile, error) {
	file, err := s.files.GetMediaFile(ctx, id)
	if err != nil {
		return nil, mediaTypes.MediaFile{}, err
	}
	var buf bytes.Buffer
	buf.Grow(int(file.Size))
	if err := s.WriteTo(ctx, file, &buf); err != nil {
		return nil, file, err
	}
	return buf.Bytes(), file, nil
}

// DownloadTo copies the file's content to a local path.
func (s *Service) DownloadTo(ctx context.Context, id uuid.UUID, path string) error {
	file, err := s.files.GetMediaFile(ctx, id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.WriteTo(ctx, file, out); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

// Remove deletes the bytes and then the metadata row.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	file, err := s.files.GetMediaFile(ctx, id)
	if err != nil {
		return err
	}
	if err := s.removeContent(ctx, file); err != nil {
		return err
	}
	return s.files.DeleteMediaFile(ctx, id)
}

// Presigner is implemented by backends that can hand out direct download
// links.
type Presigner interface {
	PresignedURL(ctx context.Context, file mediaTypes.MediaFile, expiry time.Duration) (*url.URL, error)
}

// PresignedURL returns a direct download link for the file when the backend
// holding it supports one. ok is false otherwise.
func (s *Service) PresignedURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (link string, ok bool, err error) {
	file, err := s.files.GetMediaFile(ctx, id)
	if err != nil {
		return "", false, err
	}
	backend, err := s.registry.Get(file.StorageType)
	if err != nil {
		return "", false, err
	}
	p, ok := backend.(Presigner)
	if !ok {
		return "", false, nil
	}
	u, err := p.PresignedURL(ctx, file, expiry)
	if err != nil {
		return "", false, err
	}
	return u.String(), true, nil
}

// RemoveAllForReference deletes every file stored for a reference. Content is
// removed first; rows are only deleted when every backend call succeeded.
func (s *Service) RemoveAllForReference(ctx context.Context, referenceID uuid.UUID) (int, error) {
	files, err := s.files.ListMediaFilesByReference(ctx, referenceID)
	if err != nil {
		return 0, err
	}

	var errs []error
	for _, f := range files {
		if err := s.removeContent(ctx, f); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return 0, errors.Join(errs...)
	}

	if err := s.files.DeleteMediaFilesByReference(ctx, referenceID); err != nil {
		return 0, err
	}
	return len(files), nil
}

func (s *Service) removeContent(ctx context.Context, file mediaTypes.MediaFile) error {
	backend, err := s.registry.Get(file.StorageType)
	if err != nil {
		return err
	}
	if err := backend.Remove(ctx, file); err != nil {
		return fmt.Errorf("remove %s/%s from %s: %w", file.Bucket, file.FileKey, file.StorageType, err)
	}
	return nil
}
