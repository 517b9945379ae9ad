package service

import (
	"context"

	"library_api/internal/auth"
	"library_api/internal/logger"
	"library_api/internal/models"
	"library_api/internal/repository"
)

// Authorization covers accounts and the identity of a request.
type Authorization interface {
	AddUser(ctx context.Context, in NewUser) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ResolveUser(ctx context.Context, token string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Library exposes book and author queries and the gated mutations.
type Library interface {
	BookCount(ctx context.Context) (int, error)
	AuthorCount(ctx context.Context) (int, error)
	AllBooks(ctx context.Context, f BookFilter) ([]models.Book, error)
	AllAuthors(ctx context.Context) ([]models.Author, error)
	AuthorByID(ctx context.Context, id string) (*models.Author, error)
	AuthorBookCount(ctx context.Context, authorID string) (int, error)
	AddBook(ctx context.Context, in NewBook) (*models.Book, error)
	EditAuthor(ctx context.Context, name string, born int) (*models.Author, error)
}

// EventLog exposes the activity log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error)
}

// Monitoring exposes read-only library statistics.
type Monitoring interface {
	GetStats(ctx context.Context) (models.LibraryStats, error)
}

// PasswordHasher is satisfied by *auth.PasswordHasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer is satisfied by *auth.TokenManager.
type TokenIssuer interface {
	Issue(username, userID string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// Deps are the process-wide collaborators built from configuration at startup.
type Deps struct {
	Hasher PasswordHasher
	Tokens TokenIssuer
	Log    *logger.Logger
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Library
	EventLog
	Monitoring
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Events, deps.Hasher, deps.Tokens, log),
		Library:       NewLibraryService(repos.Books, repos.Authors, repos.Events, log),
		EventLog:      NewEventLogService(repos.Events),
		Monitoring:    NewMonitoringService(repos.Books, repos.Authors, repos.Users),
	}
}
