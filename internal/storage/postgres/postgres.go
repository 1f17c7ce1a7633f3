package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/princekumarofficial/autohouse-service/internal/config"
	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types"
)

const uniqueViolation = "23505"

type Postgres struct {
	Db *sql.DB
}

var _ storage.Storage = (*Postgres)(nil)

func ConnString(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGSQL.Host, cfg.PGSQL.Port, cfg.PGSQL.User, cfg.PGSQL.Password, cfg.PGSQL.DBName, cfg.PGSQL.SSLMode)
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	pg, err := Open(ConnString(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("Connected to Postgres database", slog.String("dbname", cfg.PGSQL.DBName))
	return pg, nil
}

// Open connects with a lib/pq connection string and creates missing tables.
func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	pg := &Postgres{Db: db}
	if err := pg.CreateTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return pg, nil
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}

func (p *Postgres) CreateTables() error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			password TEXT NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			roles TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username));`,
		`
		CREATE TABLE IF NOT EXISTS makers (
			id SERIAL PRIMARY KEY,
			name VARCHAR(64) UNIQUE NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS models (
			id SERIAL PRIMARY KEY,
			name VARCHAR(64) NOT NULL,
			maker_id INTEGER NOT NULL REFERENCES makers(id) ON DELETE CASCADE,
			UNIQUE (maker_id, name)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS trims (
			id SERIAL PRIMARY KEY,
			year INTEGER NOT NULL,
			name VARCHAR(128) NOT NULL,
			model_id INTEGER NOT NULL REFERENCES models(id) ON DELETE CASCADE
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_trims_model_id ON trims (model_id);`,
		`
		CREATE TABLE IF NOT EXISTS locations (
			id SERIAL PRIMARY KEY,
			city VARCHAR(128) NOT NULL,
			city_region VARCHAR(128) NOT NULL,
			country VARCHAR(128) NOT NULL,
			postal_code VARCHAR(32),
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			maps_url TEXT
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS offers (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(128) NOT NULL,
			description TEXT,
			price BIGINT NOT NULL,
			location_id INTEGER NOT NULL REFERENCES locations(id),
			maker_id INTEGER NOT NULL,
			maker_name VARCHAR(64) NOT NULL,
			model_id INTEGER NOT NULL,
			model_name VARCHAR(64) NOT NULL,
			trim VARCHAR(128),
			year INTEGER NOT NULL,
			mileage INTEGER,
			doors INTEGER,
			state VARCHAR(32) NOT NULL,
			body_style VARCHAR(32) NOT NULL,
			transmission VARCHAR(32) NOT NULL,
			drive VARCHAR(32),
			color VARCHAR(32),
			fuel_type VARCHAR(32) NOT NULL,
			features TEXT[] NOT NULL DEFAULT '{}',
			has_accident BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_offers_maker_model ON offers (maker_id, model_id);`,
		`
		CREATE TABLE IF NOT EXISTS media_files (
			id UUID PRIMARY KEY,
			bucket VARCHAR(255) NOT NULL,
			storage_type VARCHAR(32) NOT NULL,
			content_type VARCHAR(255) NOT NULL,
			size BIGINT NOT NULL,
			file_key VARCHAR(1024) NOT NULL,
			original_filename VARCHAR(1024),
			reference_id UUID NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (bucket, file_key)
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_media_files_reference_id ON media_files (reference_id);`,
	}

	for _, q := range queries {
		if _, err := p.Db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// mapError translates driver errors into the shared error kinds.
func mapError(err error, subject string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", subject, types.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", subject, types.ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", subject, err)
}

func countMakers(ctx context.Context, q queryer) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM makers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count makers: %w", err)
	}
	return n, nil
}
