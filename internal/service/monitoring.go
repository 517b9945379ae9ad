package service

import (
	"context"
	"time"

	"library_api/internal/models"
	"library_api/internal/repository"

	"golang.org/x/sync/errgroup"
)

type counter interface {
	Count(ctx context.Context) (int, error)
}

type MonitoringService struct {
	books   counter
	authors counter
	users   counter
	now     func() time.Time
}

func NewMonitoringService(books repository.Books, authors repository.Authors, users repository.Users) *MonitoringService {
	return &MonitoringService{books: books, authors: authors, users: users, now: time.Now}
}

// GetStats counts books, authors and users concurrently.
func (s *MonitoringService) GetStats(ctx context.Context) (models.LibraryStats, error) {
	var st models.LibraryStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.Books, err = s.books.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.Authors, err = s.authors.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.Users, err = s.users.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.LibraryStats{}, err
	}

	st.UpdatedAt = s.now().UTC()
	return st, nil
}
