package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"library_api/internal/models"

	"github.com/google/uuid"
)

type AuthorSQLite struct {
	db *sql.DB
}

func NewAuthorSQLite(db *sql.DB) *AuthorSQLite {
	return &AuthorSQLite{db: db}
}

var _ Authors = (*AuthorSQLite)(nil)

const (
	authorColumns = `id, name, born`

	insertAuthorSQL       = `INSERT INTO authors (id, name) VALUES (?, ?)`
	selectAuthorByNameSQL = `SELECT ` + authorColumns + ` FROM authors WHERE name = ?`
	selectAuthorByIDSQL   = `SELECT ` + authorColumns + ` FROM authors WHERE id = ?`
	selectAuthorsSQL      = `SELECT ` + authorColumns + ` FROM authors ORDER BY rowid`
	countAuthorsSQL       = `SELECT COUNT(*) FROM authors`
	updateAuthorBornSQL   = `UPDATE authors SET born = ? WHERE name = ? RETURNING ` + authorColumns
)

// Create inserts an author with no birth year. A taken name yields ErrDuplicate.
func (r *AuthorSQLite) Create(ctx context.Context, name string) (*models.Author, error) {
	a := models.Author{ID: uuid.NewString(), Name: name}
	if _, err := r.db.ExecContext(ctx, insertAuthorSQL, a.ID, a.Name); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert author %q: %w", name, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert author %q: %w", name, err)
	}
	return &a, nil
}

// GetByName is an exact-match lookup. Returns (nil, nil) if not found.
func (r *AuthorSQLite) GetByName(ctx context.Context, name string) (*models.Author, error) {
	a, err := scanAuthor(r.db.QueryRowContext(ctx, selectAuthorByNameSQL, name))
	if err != nil {
		return nil, fmt.Errorf("select author %q: %w", name, err)
	}
	return a, nil
}

func (r *AuthorSQLite) GetByID(ctx context.Context, id string) (*models.Author, error) {
	a, err := scanAuthor(r.db.QueryRowContext(ctx, selectAuthorByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select author by id %q: %w", id, err)
	}
	return a, nil
}

func (r *AuthorSQLite) List(ctx context.Context) ([]models.Author, error) {
	rows, err := r.db.QueryContext(ctx, selectAuthorsSQL)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	out := make([]models.Author, 0, 16)
	for rows.Next() {
		var (
			a    models.Author
			born sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.Name, &born); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		a.Born = nullIntPtr(born)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return out, nil
}

func (r *AuthorSQLite) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, countAuthorsSQL)
}

// SetBorn updates the birth year of the named author and returns the
// updated record, or (nil, nil) when no author has that name.
func (r *AuthorSQLite) SetBorn(ctx context.Context, name string, born int) (*models.Author, error) {
	a, err := scanAuthor(r.db.QueryRowContext(ctx, updateAuthorBornSQL, born, name))
	if err != nil {
		return nil, fmt.Errorf("update author %q: %w", name, err)
	}
	return a, nil
}

func scanAuthor(row *sql.Row) (*models.Author, error) {
	var (
		a    models.Author
		born sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.Name, &born); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.Born = nullIntPtr(born)
	return &a, nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
