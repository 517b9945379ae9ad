package repository

import (
	"context"
	"database/sql"
	"time"

	"library_api/internal/models"
)

// Users is the credential store.
type Users interface {
	Create(ctx context.Context, u models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int, error)
}

type Authors interface {
	Create(ctx context.Context, name string) (*models.Author, error)
	GetByName(ctx context.Context, name string) (*models.Author, error)
	GetByID(ctx context.Context, id string) (*models.Author, error)
	List(ctx context.Context) ([]models.Author, error)
	Count(ctx context.Context) (int, error)
	SetBorn(ctx context.Context, name string, born int) (*models.Author, error)
}

type Books interface {
	Create(ctx context.Context, b models.Book) (*models.Book, error)
	GetByTitle(ctx context.Context, title string) (*models.Book, error)
	List(ctx context.Context, q BookQuery) ([]models.Book, error)
	Count(ctx context.Context) (int, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ActivityEvent, error)
}

// BookQuery is a store-level book filter. Set fields combine with AND;
// the zero value matches every book.
type BookQuery struct {
	AuthorID  string
	Genre     string
	MatchNone bool // short-circuits to an empty result
}

type Repository struct {
	Users   Users
	Authors Authors
	Books   Books
	Events  EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:   NewUserSQLite(db),
		Authors: NewAuthorSQLite(db),
		Books:   NewBookSQLite(db),
		Events:  NewEventSQLite(db),
	}
}
