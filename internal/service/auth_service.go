package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"library_api/internal/auth"
	"library_api/internal/logger"
	"library_api/internal/models"
	"library_api/internal/repository"
)

const (
	minUsernameLen = 4
	minPasswordLen = 5
)

// AuthService handles accounts, login and token-to-user resolution.
type AuthService struct {
	users  repository.Users
	hasher PasswordHasher
	tokens TokenIssuer
	events *activityRecorder
	log    *logger.Logger
}

func NewAuthService(users repository.Users, events repository.EventRepo, hasher PasswordHasher, tokens TokenIssuer, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: newActivityRecorder(events, log),
		log:    log,
	}
}

func validateNewUser(in NewUser) error {
	if utf8.RuneCountInString(normalizeName(in.Username)) < minUsernameLen {
		return &ValidationError{Field: "username", Value: in.Username,
			Reason: fmt.Sprintf("must be at least %d characters", minUsernameLen)}
	}
	// checked before hashing; the stored digest says nothing about length
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return &ValidationError{Field: "password", Value: "",
			Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}
	if normalizeName(in.FavoriteGenre) == "" {
		return &ValidationError{Field: "favoriteGenre", Value: in.FavoriteGenre, Reason: "is required"}
	}
	return nil
}

// AddUser validates input, hashes the password and stores the user.
func (s *AuthService) AddUser(ctx context.Context, in NewUser) (*models.User, error) {
	if err := validateNewUser(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		var he *auth.HashingError
		if errors.As(err, &he) {
			return nil, &ValidationError{Field: "password", Reason: "cannot be hashed", Err: err}
		}
		return nil, err
	}

	u, err := s.users.Create(ctx, models.User{
		Username:      normalizeName(in.Username),
		PasswordHash:  hash,
		FavoriteGenre: normalizeName(in.FavoriteGenre),
	})
	if err != nil {
		return nil, err
	}

	s.events.record(ctx, models.EventUserAdded, "User added", map[string]any{"user_id": u.ID, "username": u.Username})
	return u, nil
}

// Login checks credentials and returns a signed token. No token is
// produced unless the password verifies.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = normalizeName(username)
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil || !s.hasher.Verify(password, u.PasswordHash) {
		s.events.record(ctx, models.EventLoginFailed, "Login failed", map[string]any{"username": username})
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.Username, u.ID)
	if err != nil {
		return "", err
	}
	s.events.record(ctx, models.EventLogin, "User logged in", map[string]any{"user_id": u.ID})
	return token, nil
}

// ResolveUser maps a bearer token to its user. Invalid tokens and tokens
// whose user no longer exists resolve to (nil, nil), i.e. anonymous;
// only store failures are returned as errors.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		var ite *auth.InvalidTokenError
		if errors.As(err, &ite) {
			s.log.Debugw("identity_token_rejected", "reason", ite.Reason)
			return nil, nil
		}
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	if u == nil {
		s.log.Infow("identity_subject_missing", "user_id", claims.UserID)
	}
	return u, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}
