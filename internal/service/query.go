package service

import (
	"context"
	"fmt"

	"library_api/internal/models"
	"library_api/internal/repository"
)

// AuthorLookup is the slice of the author store the composer needs.
type AuthorLookup interface {
	GetByName(ctx context.Context, name string) (*models.Author, error)
}

// ComposeBookQuery turns allBooks arguments into a store query. An author
// name is normalized like on write and resolved to its id first; an unknown author makes the whole query
// match nothing. Filters combine with AND; no filters match every book.
func ComposeBookQuery(ctx context.Context, authors AuthorLookup, f BookFilter) (repository.BookQuery, error) {
	var q repository.BookQuery

	if author := normalizeName(f.Author); author != "" {
		a, err := authors.GetByName(ctx, author)
		if err != nil {
			return repository.BookQuery{}, fmt.Errorf("resolve author filter: %w", err)
		}
		if a == nil {
			return repository.BookQuery{MatchNone: true}, nil
		}
		q.AuthorID = a.ID
	}
	if genre := normalizeName(f.Genre); genre != "" {
		q.Genre = genre
	}
	return q, nil
}
