package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"library_api/internal/models"

	"github.com/google/uuid"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

var _ Users = (*UserSQLite)(nil)

const (
	userColumns = `id, username, password_hash, favorite_genre`

	insertUserSQL           = `INSERT INTO users (id, username, password_hash, favorite_genre) VALUES (?, ?, ?, ?)`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ? ORDER BY rowid LIMIT 1`
	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUsersSQL          = `SELECT ` + userColumns + ` FROM users ORDER BY rowid`
	countUsersSQL           = `SELECT COUNT(*) FROM users`
)

// Create inserts u under a fresh id and returns the stored record.
func (r *UserSQLite) Create(ctx context.Context, u models.User) (*models.User, error) {
	u.ID = uuid.NewString()
	if _, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Username, u.PasswordHash, u.FavoriteGenre); err != nil {
		return nil, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return &u, nil
}

// GetByUsername returns the first user registered under username,
// or (nil, nil) if there is none.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByID returns (nil, nil) if no user has that id.
func (r *UserSQLite) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user by id %q: %w", id, err)
	}
	return u, nil
}

func (r *UserSQLite) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FavoriteGenre); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *UserSQLite) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, countUsersSQL)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FavoriteGenre); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// count runs a single-value COUNT query.
func count(ctx context.Context, db *sql.DB, query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
