package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types/catalog"
)

// InImportSession runs fn in one transaction. Makers and models are inserted
// immediately so their SERIAL ids are known; trims are buffered and written
// with COPY on Flush.
func (p *Postgres) InImportSession(ctx context.Context, fn func(storage.ImportSession) error) error {
	tx, err := p.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}

	sess := &importSession{tx: tx}
	if err := fn(sess); err != nil {
		tx.Rollback()
		return err
	}
	if err := sess.Flush(ctx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

type importSession struct {
	tx      *sql.Tx
	pending []*catalog.Trim
}

func (s *importSession) PersistMaker(ctx context.Context, maker *catalog.Maker) error {
	err := s.tx.QueryRowContext(ctx,
		`INSERT INTO makers (name) VALUES ($1) RETURNING id`, maker.Name,
	).Scan(&maker.ID)
	return mapError(err, fmt.Sprintf("maker %q", maker.Name))
}

func (s *importSession) PersistModel(ctx context.Context, model *catalog.Model) error {
	err := s.tx.QueryRowContext(ctx,
		`INSERT INTO models (name, maker_id) VALUES ($1, $2) RETURNING id`, model.Name, model.MakerID,
	).Scan(&model.ID)
	return mapError(err, fmt.Sprintf("model %q", model.Name))
}

func (s *importSession) AddTrim(_ context.Context, trim *catalog.Trim) error {
	s.pending = append(s.pending, trim)
	return nil
}

// Flush streams pending trims through COPY. Trim ids are not read back.
func (s *importSession) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	stmt, err := s.tx.PrepareContext(ctx, pq.CopyIn("trims", "year", "name", "model_id"))
	if err != nil {
		return fmt.Errorf("prepare trim copy: %w", err)
	}
	defer stmt.Close()

	for _, t := range s.pending {
		if _, err := stmt.ExecContext(ctx, t.Year, t.Name, t.ModelID); err != nil {
			return fmt.Errorf("copy trim %q: %w", t.Name, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return mapError(err, "copy trims")
	}

	s.pending = s.pending[:0]
	return nil
}

func (s *importSession) Clear() {
	s.pending = nil
}

func (s *importSession) MakerRef(id int64) *catalog.Maker {
	return &catalog.Maker{ID: id}
}

func (s *importSession) ModelRef(id int64) *catalog.Model {
	return &catalog.Model{ID: id}
}

func (s *importSession) CountMakers(ctx context.Context) (int, error) {
	return countMakers(ctx, s.tx)
}
