package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"library_api/internal/models"

	"github.com/google/uuid"
)

type BookSQLite struct {
	db *sql.DB
}

func NewBookSQLite(db *sql.DB) *BookSQLite {
	return &BookSQLite{db: db}
}

var _ Books = (*BookSQLite)(nil)

const (
	bookColumns = `id, title, published, author_id, genres`

	insertBookSQL         = `INSERT INTO books (id, title, published, author_id, genres) VALUES (?, ?, ?, ?, ?)`
	selectBookByTitleSQL  = `SELECT ` + bookColumns + ` FROM books WHERE title = ?`
	selectBooksSQL        = `SELECT ` + bookColumns + ` FROM books`
	countBooksSQL         = `SELECT COUNT(*) FROM books`
	countBooksByAuthorSQL = `SELECT COUNT(*) FROM books WHERE author_id = ?`
	bookAuthorCond        = `author_id = ?`
	bookGenreCond         = `EXISTS (SELECT 1 FROM json_each(books.genres) WHERE json_each.value = ?)`
	booksOrderBy          = ` ORDER BY rowid`
)

func marshalGenres(genres []string) (string, error) {
	if genres == nil {
		genres = []string{}
	}
	b, err := json.Marshal(genres)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalGenres(s string) ([]string, error) {
	genres := []string{}
	if s == "" {
		return genres, nil
	}
	if err := json.Unmarshal([]byte(s), &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// Create inserts b under a fresh id. A taken title yields ErrDuplicate.
func (r *BookSQLite) Create(ctx context.Context, b models.Book) (*models.Book, error) {
	genresJSON, err := marshalGenres(b.Genres)
	if err != nil {
		return nil, fmt.Errorf("encode genres: %w", err)
	}
	b.ID = uuid.NewString()
	if b.Genres == nil {
		b.Genres = []string{}
	}

	if _, err := r.db.ExecContext(ctx, insertBookSQL, b.ID, b.Title, b.Published, b.AuthorID, genresJSON); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert book %q: %w", b.Title, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert book %q: %w", b.Title, err)
	}
	return &b, nil
}

// GetByTitle returns (nil, nil) if no book has that title.
func (r *BookSQLite) GetByTitle(ctx context.Context, title string) (*models.Book, error) {
	var (
		b          models.Book
		genresJSON string
	)
	err := r.db.QueryRowContext(ctx, selectBookByTitleSQL, title).
		Scan(&b.ID, &b.Title, &b.Published, &b.AuthorID, &genresJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select book %q: %w", title, err)
	}
	if b.Genres, err = unmarshalGenres(genresJSON); err != nil {
		return nil, fmt.Errorf("decode genres of %q: %w", title, err)
	}
	return &b, nil
}

// buildBookListSQL renders q into a SELECT with its positional args.
func buildBookListSQL(q BookQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if q.AuthorID != "" {
		conds = append(conds, bookAuthorCond)
		args = append(args, q.AuthorID)
	}
	if q.Genre != "" {
		conds = append(conds, bookGenreCond)
		args = append(args, q.Genre)
	}

	query := selectBooksSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return query + booksOrderBy, args
}

// List returns the books matching q in insertion order.
func (r *BookSQLite) List(ctx context.Context, q BookQuery) ([]models.Book, error) {
	out := make([]models.Book, 0, 16)
	if q.MatchNone {
		return out, nil
	}

	query, args := buildBookListSQL(q)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b          models.Book
			genresJSON string
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Published, &b.AuthorID, &genresJSON); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		if b.Genres, err = unmarshalGenres(genresJSON); err != nil {
			return nil, fmt.Errorf("decode genres of %q: %w", b.Title, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return out, nil
}

func (r *BookSQLite) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, countBooksSQL)
}

// CountByAuthor counts the books referencing authorID.
func (r *BookSQLite) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	return count(ctx, r.db, countBooksByAuthorSQL, authorID)
}
