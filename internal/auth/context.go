package auth

import (
	"context"

	"library_api/internal/models"
)

type contextKey struct{}

// WithUser returns a request context carrying the authenticated user.
// A nil user yields ctx unchanged, i.e. an anonymous request.
func WithUser(ctx context.Context, user *models.User) context.Context {
	if user == nil {
		return ctx
	}
	u := *user
	return context.WithValue(ctx, contextKey{}, &u)
}

// UserFromContext returns the current user, if the request is authenticated.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*models.User)
	return u, ok && u != nil
}
