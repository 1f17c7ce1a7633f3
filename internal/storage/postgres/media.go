package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/types/media"
)

const mediaColumns = `id, bucket, storage_type, content_type, size, file_key, COALESCE(original_filename, ''), reference_id, created_at`

func scanMediaFile(row interface{ Scan(...any) error }) (media.MediaFile, error) {
	var f media.MediaFile
	err := row.Scan(&f.ID, &f.Bucket, &f.StorageType, &f.ContentType, &f.Size,
		&f.FileKey, &f.OriginalFilename, &f.ReferenceID, &f.CreatedAt)
	return f, err
}

// SaveMediaFile inserts the row or updates the existing row for the same
// bucket and key, keeping its id.
func (p *Postgres) SaveMediaFile(ctx context.Context, file *media.MediaFile) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	err := p.Db.QueryRowContext(ctx, `
	INSERT INTO media_files (id, bucket, storage_type, content_type, size, file_key, original_filename, reference_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (bucket, file_key) DO UPDATE SET
		storage_type = EXCLUDED.storage_type,
		content_type = EXCLUDED.content_type,
		size = EXCLUDED.size,
		original_filename = EXCLUDED.original_filename,
		reference_id = EXCLUDED.reference_id
	RETURNING id, created_at
	`, file.ID, file.Bucket, file.StorageType, file.ContentType, file.Size,
		file.FileKey, file.OriginalFilename, file.ReferenceID,
	).Scan(&file.ID, &file.CreatedAt)
	return mapError(err, fmt.Sprintf("media file %s/%s", file.Bucket, file.FileKey))
}

func (p *Postgres) GetMediaFile(ctx context.Context, id uuid.UUID) (media.MediaFile, error) {
	f, err := scanMediaFile(p.Db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media_files WHERE id = $1`, id))
	if err != nil {
		return media.MediaFile{}, mapError(err, fmt.Sprintf("media file %s", id))
	}
	return f, nil
}

func (p *Postgres) GetMediaFileByKey(ctx context.Context, bucket, fileKey string) (media.MediaFile, error) {
	f, err := scanMediaFile(p.Db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media_files WHERE bucket = $1 AND file_key = $2`, bucket, fileKey))
	if err != nil {
		return media.MediaFile{}, mapError(err, fmt.Sprintf("media file %s/%s", bucket, fileKey))
	}
	return f, nil
}

func (p *Postgres) MediaFileExists(ctx context.Context, bucket, fileKey string) (bool, error) {
	var exists bool
	err := p.Db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM media_files WHERE bucket = $1 AND file_key = $2)`, bucket, fileKey,
	).Scan(&exists)
	return exists, err
}

func (p *Postgres) ListMediaFilesByReference(ctx context.Context, referenceID uuid.UUID) ([]media.MediaFile, error) {
	rows, err := p.Db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media_files WHERE reference_id = $1 ORDER BY created_at`, referenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []media.MediaFile
	for rows.Next() {
		f, err := scanMediaFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (p *Postgres) DeleteMediaFile(ctx context.Context, id uuid.UUID) error {
	res, err := p.Db.ExecContext(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mapError(sql.ErrNoRows, fmt.Sprintf("media file %s", id))
	}
	return nil
}

func (p *Postgres) DeleteMediaFilesByReference(ctx context.Context, referenceID uuid.UUID) error {
	_, err := p.Db.ExecContext(ctx, `DELETE FROM media_files WHERE reference_id = $1`, referenceID)
	return err
}

func (p *Postgres) OrphanedReferences(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := p.Db.QueryContext(ctx, `
	SELECT DISTINCT mf.reference_id
	FROM media_files mf
	WHERE NOT EXISTS (SELECT 1 FROM offers o WHERE o.id = mf.reference_id)
		AND NOT EXISTS (SELECT 1 FROM users u WHERE u.id = mf.reference_id)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
