package media

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"

	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
)

// DatabaseBackend keeps file bytes in a media_blobs table next to the
// metadata rows.
type DatabaseBackend struct {
	db      *sql.DB
	enabled bool
}

func NewDatabaseBackend(db *sql.DB, enabled bool) *DatabaseBackend {
	return &DatabaseBackend{db: db, enabled: enabled}
}

func (b *DatabaseBackend) EnsureSchema(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	_, err := b.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS media_blobs (
		bucket VARCHAR(255) NOT NULL,
		file_key VARCHAR(1024) NOT NULL,
		data BYTEA NOT NULL,
		PRIMARY KEY (bucket, file_key)
	)`)
	return err
}

func (b *DatabaseBackend) Type() mediaTypes.StorageType {
	return mediaTypes.StorageLocalDatabase
}

func (b *DatabaseBackend) IsConfigured() bool {
	return b.enabled && b.db != nil
}

func (b *DatabaseBackend) Store(ctx context.Context, file mediaTypes.MediaFile, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	_, err = b.db.ExecContext(ctx, `
	INSERT INTO media_blobs (bucket, file_key, data) VALUES ($1, $2, $3)
	ON CONFLICT (bucket, file_key) DO UPDATE SET data = excluded.data
	`, file.Bucket, file.FileKey, data)
	if err != nil {
		return fmt.Errorf("store blob %s/%s: %w", file.Bucket, file.FileKey, err)
	}
	return nil
}

func (b *DatabaseBackend) Retrieve(ctx context.Context, file mediaTypes.MediaFile, w io.Writer) error {
	var data []byte
	err := b.db.QueryRowContext(ctx,
		`SELECT data FROM media_blobs WHERE bucket = $1 AND file_key = $2`, file.Bucket, file.FileKey,
	).Scan(&data)
	if err != nil {
		return fmt.Errorf("load blob %s/%s: %w", file.Bucket, file.FileKey, err)
	}
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

func (b *DatabaseBackend) Remove(ctx context.Context, file mediaTypes.MediaFile) error {
	_, err := b.db.ExecContext(ctx,
		`DELETE FROM media_blobs WHERE bucket = $1 AND file_key = $2`, file.Bucket, file.FileKey)
	return err
}
