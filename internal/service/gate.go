package service

import (
	"context"

	"library_api/internal/auth"
	"library_api/internal/models"
)

// requireUser is the first call of every gated mutation: it returns the
// current user, or an UnauthorizedError before any store access happens.
func requireUser(ctx context.Context, op string) (*models.User, error) {
	u, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, &UnauthorizedError{Op: op}
	}
	return u, nil
}
