package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"library_api/internal/models"
	"library_api/internal/repository"
)

var errStoreDown = errors.New("store down")

// memUsers is an in-memory repository.Users.
type memUsers struct {
	mu      sync.Mutex
	users   []models.User
	creates int
	err     error
}

func (m *memUsers) Create(_ context.Context, u models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.err != nil {
		return nil, m.err
	}
	u.ID = "u-" + strconv.Itoa(len(m.users)+1)
	m.users = append(m.users, u)
	return &u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) List(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User(nil), m.users...), m.err
}

func (m *memUsers) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), m.err
}

// memAuthors is an in-memory repository.Authors.
type memAuthors struct {
	mu      sync.Mutex
	authors []models.Author
	writes  int
	lookups int
	err     error
}

func (m *memAuthors) Create(_ context.Context, name string) (*models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	for _, a := range m.authors {
		if a.Name == name {
			return nil, repository.ErrDuplicate
		}
	}
	a := models.Author{ID: "a-" + strconv.Itoa(len(m.authors)+1), Name: name}
	m.authors = append(m.authors, a)
	return &a, nil
}

func (m *memAuthors) GetByName(_ context.Context, name string) (*models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.authors {
		if a.Name == name {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memAuthors) GetByID(_ context.Context, id string) (*models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.authors {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memAuthors) List(context.Context) ([]models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Author(nil), m.authors...), nil
}

func (m *memAuthors) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.authors), m.err
}

func (m *memAuthors) SetBorn(_ context.Context, name string, born int) (*models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	for i := range m.authors {
		if m.authors[i].Name == name {
			b := born
			m.authors[i].Born = &b
			a := m.authors[i]
			return &a, nil
		}
	}
	return nil, nil
}

// memBooks is an in-memory repository.Books honoring BookQuery semantics.
type memBooks struct {
	mu      sync.Mutex
	books   []models.Book
	writes  int
	queries []repository.BookQuery
	err     error
}

func (m *memBooks) Create(_ context.Context, b models.Book) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	for _, existing := range m.books {
		if existing.Title == b.Title {
			return nil, repository.ErrDuplicate
		}
	}
	b.ID = "b-" + strconv.Itoa(len(m.books)+1)
	m.books = append(m.books, b)
	return &b, nil
}

func (m *memBooks) GetByTitle(_ context.Context, title string) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.books {
		if b.Title == title {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (m *memBooks) List(_ context.Context, q repository.BookQuery) ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	out := []models.Book{}
	if q.MatchNone {
		return out, nil
	}
	for _, b := range m.books {
		if q.AuthorID != "" && b.AuthorID != q.AuthorID {
			continue
		}
		if q.Genre != "" && !containsString(b.Genres, q.Genre) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memBooks) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.books), m.err
}

func (m *memBooks) CountByAuthor(_ context.Context, authorID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.books {
		if b.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// memEvents is an in-memory repository.EventRepo.
type memEvents struct {
	mu        sync.Mutex
	events    []models.ActivityEvent
	appendErr error

	gotFrom, gotTo time.Time
	gotType        string
	listErr        error
}

func (m *memEvents) Append(_ context.Context, e models.ActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memEvents) List(_ context.Context, from, to time.Time, typ string) ([]models.ActivityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotFrom, m.gotTo, m.gotType = from, to, typ
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.ActivityEvent(nil), m.events...), nil
}

func (m *memEvents) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}
