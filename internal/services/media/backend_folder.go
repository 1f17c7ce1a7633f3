package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
)

// FolderBackend stores files under Root/<bucket>/<file key>.
type FolderBackend struct {
	Root string
}

func NewFolderBackend(root string) *FolderBackend {
	return &FolderBackend{Root: root}
}

func (b *FolderBackend) Type() mediaTypes.StorageType {
	return mediaTypes.StorageLocalFolder
}

func (b *FolderBackend) IsConfigured() bool {
	return b.Root != ""
}

func (b *FolderBackend) path(file mediaTypes.MediaFile) (string, error) {
	root := filepath.Clean(b.Root)
	p := filepath.Join(root, file.Bucket, filepath.FromSlash(file.FileKey))
	if !strings.HasPrefix(p, root+string(filepath.Separator)) {
		return "", fmt.Errorf("file key %q escapes storage root", file.FileKey)
	}
	return p, nil
}

func (b *FolderBackend) Store(_ context.Context, file mediaTypes.MediaFile, r io.Reader) error {
	p, err := b.path(file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (b *FolderBackend) Retrieve(_ context.Context, file mediaTypes.MediaFile, w io.Writer) error {
	p, err := b.path(file)
	if err != nil {
		return err
	}
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func (b *FolderBackend) Remove(_ context.Context, file mediaTypes.MediaFile) error {
	p, err := b.path(file)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
