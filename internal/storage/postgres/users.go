package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/princekumarofficial/autohouse-service/internal/types/users"
)

func rolesToStrings(roles []users.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func stringsToRoles(in []string) []users.Role {
	out := make([]users.Role, len(in))
	for i, r := range in {
		out[i] = users.Role(r)
	}
	return out
}

func (p *Postgres) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `
	INSERT INTO users (id, username, password, enabled, roles)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`

	err := p.Db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Password, user.Enabled, pq.Array(rolesToStrings(user.Roles)),
	).Scan(&user.CreatedAt)
	return mapError(err, fmt.Sprintf("user %q", user.Username))
}

// CreateUsers inserts a batch of users with one COPY inside a transaction.
func (p *Postgres) CreateUsers(ctx context.Context, batch []users.User) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := p.Db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("users", "id", "username", "password", "enabled", "roles"))
	if err != nil {
		return fmt.Errorf("prepare user copy: %w", err)
	}

	for i := range batch {
		u := &batch[i]
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, u.ID, u.Username, u.Password, u.Enabled, pq.Array(rolesToStrings(u.Roles))); err != nil {
			stmt.Close()
			return fmt.Errorf("copy user %q: %w", u.Username, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return mapError(err, "copy users")
	}
	if err := stmt.Close(); err != nil {
		return err
	}

	return tx.Commit()
}

func (p *Postgres) scanUser(ctx context.Context, where string, arg any) (users.User, error) {
	var (
		u     users.User
		roles []string
	)
	query := `SELECT id, username, password, enabled, roles, created_at FROM users WHERE ` + where
	err := p.Db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Password, &u.Enabled, pq.Array(&roles), &u.CreatedAt)
	if err != nil {
		return users.User{}, mapError(err, fmt.Sprintf("user %v", arg))
	}
	u.Roles = stringsToRoles(roles)
	return u, nil
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (users.User, error) {
	return p.scanUser(ctx, `id = $1`, id)
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (users.User, error) {
	return p.scanUser(ctx, `LOWER(username) = LOWER($1)`, username)
}

func (p *Postgres) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := p.Db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`, username,
	).Scan(&exists)
	return exists, err
}

func (p *Postgres) ExistingUsernames(ctx context.Context, usernames []string) ([]string, error) {
	lowered := make([]string, len(usernames))
	for i, u := range usernames {
		lowered[i] = strings.ToLower(u)
	}

	rows, err := p.Db.QueryContext(ctx,
		`SELECT username FROM users WHERE LOWER(username) = ANY($1)`, pq.Array(lowered))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		existing = append(existing, name)
	}
	return existing, rows.Err()
}

func (p *Postgres) ListUsers(ctx context.Context) ([]users.UserSummary, error) {
	rows, err := p.Db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []users.UserSummary
	for rows.Next() {
		var u users.UserSummary
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
