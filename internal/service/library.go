package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"library_api/internal/logger"
	"library_api/internal/models"
	"library_api/internal/repository"
)

const (
	minTitleLen      = 5
	minAuthorNameLen = 4
)

// LibraryService implements book and author operations.
type LibraryService struct {
	books   repository.Books
	authors repository.Authors
	events  *activityRecorder
	log     *logger.Logger
}

func NewLibraryService(books repository.Books, authors repository.Authors, events repository.EventRepo, log *logger.Logger) *LibraryService {
	if log == nil {
		log = logger.Nop()
	}
	return &LibraryService{
		books:   books,
		authors: authors,
		events:  newActivityRecorder(events, log),
		log:     log,
	}
}

func (s *LibraryService) BookCount(ctx context.Context) (int, error) {
	return s.books.Count(ctx)
}

func (s *LibraryService) AuthorCount(ctx context.Context) (int, error) {
	return s.authors.Count(ctx)
}

// AllBooks lists books matching the optional author and genre filters.
func (s *LibraryService) AllBooks(ctx context.Context, f BookFilter) ([]models.Book, error) {
	q, err := ComposeBookQuery(ctx, s.authors, f)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("books_query_composed",
		"author", f.Author, "genre", f.Genre,
		"author_id", q.AuthorID, "match_none", q.MatchNone)
	return s.books.List(ctx, q)
}

func (s *LibraryService) AllAuthors(ctx context.Context) ([]models.Author, error) {
	return s.authors.List(ctx)
}

func (s *LibraryService) AuthorByID(ctx context.Context, id string) (*models.Author, error) {
	a, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &NotFoundError{Entity: "author", Key: id}
	}
	return a, nil
}

// AuthorBookCount is derived on every call from the books referencing authorID.
func (s *LibraryService) AuthorBookCount(ctx context.Context, authorID string) (int, error) {
	return s.books.CountByAuthor(ctx, authorID)
}

// normalizeGenres trims entries and drops blanks and repeats, keeping order.
func normalizeGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = normalizeName(g)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

func validateNewBook(in NewBook) error {
	if utf8.RuneCountInString(normalizeName(in.Title)) < minTitleLen {
		return &ValidationError{Field: "title", Value: in.Title,
			Reason: fmt.Sprintf("must be at least %d characters", minTitleLen)}
	}
	if utf8.RuneCountInString(normalizeName(in.Author)) < minAuthorNameLen {
		return &ValidationError{Field: "author", Value: in.Author,
			Reason: fmt.Sprintf("must be at least %d characters", minAuthorNameLen)}
	}
	return nil
}

// AddBook stores a book, creating its author on first use. Creating the
// author and the book are two separate writes; a failure in between
// leaves an author without books.
func (s *LibraryService) AddBook(ctx context.Context, in NewBook) (*models.Book, error) {
	user, err := requireUser(ctx, "addBook")
	if err != nil {
		return nil, err
	}
	if err := validateNewBook(in); err != nil {
		return nil, err
	}
	title := normalizeName(in.Title)
	authorName := normalizeName(in.Author)

	existing, err := s.books.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateTitle(in.Title, nil)
	}

	author, err := s.findOrCreateAuthor(ctx, authorName)
	if err != nil {
		return nil, err
	}

	book, err := s.books.Create(ctx, models.Book{
		Title:     title,
		Published: in.Published,
		AuthorID:  author.ID,
		Genres:    normalizeGenres(in.Genres),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateTitle(in.Title, err)
		}
		return nil, err
	}

	s.events.record(ctx, models.EventBookAdded, "Book added", map[string]any{
		"book_id": book.ID, "title": book.Title, "author_id": author.ID, "by": user.ID,
	})
	return book, nil
}

func duplicateTitle(title string, cause error) error {
	return &ValidationError{Field: "title", Value: title, Reason: "must be unique", Err: cause}
}

func (s *LibraryService) findOrCreateAuthor(ctx context.Context, name string) (*models.Author, error) {
	a, err := s.authors.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if a != nil {
		return a, nil
	}

	a, err = s.authors.Create(ctx, name)
	if errors.Is(err, repository.ErrDuplicate) {
		// created concurrently since the lookup
		a, err = s.authors.GetByName(ctx, name)
		if err == nil && a == nil {
			err = &NotFoundError{Entity: "author", Key: name}
		}
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	if err != nil {
		return nil, &ValidationError{Field: "author", Value: name, Reason: "could not be saved", Err: err}
	}

	s.events.record(ctx, models.EventAuthorAdded, "Author added", map[string]any{"author_id": a.ID, "name": a.Name})
	return a, nil
}

// EditAuthor sets the birth year of the named author. An unknown name is
// reported as *NotFoundError without writing anything.
func (s *LibraryService) EditAuthor(ctx context.Context, name string, born int) (*models.Author, error) {
	user, err := requireUser(ctx, "editAuthor")
	if err != nil {
		return nil, err
	}
	raw := name
	if name = normalizeName(name); name == "" {
		return nil, &ValidationError{Field: "name", Value: raw, Reason: "is required"}
	}

	a, err := s.authors.SetBorn(ctx, name, born)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &NotFoundError{Entity: "author", Key: name}
	}

	s.events.record(ctx, models.EventAuthorEdited, "Author birth year set", map[string]any{
		"author_id": a.ID, "born": born, "by": user.ID,
	})
	return a, nil
}
