package gql

import (
	"context"

	"library_api/internal/models"
	"library_api/internal/service"

	graphql "github.com/graph-gophers/graphql-go"
)

type bookResolver struct {
	b   models.Book
	lib service.Library
}

func (r *bookResolver) ID() graphql.ID    { return graphql.ID(r.b.ID) }
func (r *bookResolver) Title() string     { return r.b.Title }
func (r *bookResolver) Published() int32  { return int32(r.b.Published) }
func (r *bookResolver) Genres() *[]string { g := r.b.Genres; return &g }

// Author is loaded per book, like a populate on read.
func (r *bookResolver) Author(ctx context.Context) (*authorResolver, error) {
	a, err := r.lib.AuthorByID(ctx, r.b.AuthorID)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return &authorResolver{a: *a, lib: r.lib}, nil
}

type authorResolver struct {
	a   models.Author
	lib service.Library
}

func (r *authorResolver) ID() graphql.ID { return graphql.ID(r.a.ID) }
func (r *authorResolver) Name() string   { return r.a.Name }

func (r *authorResolver) Born() *int32 {
	if r.a.Born == nil {
		return nil
	}
	b := int32(*r.a.Born)
	return &b
}

// BookCount is derived on every read.
func (r *authorResolver) BookCount(ctx context.Context) (int32, error) {
	n, err := r.lib.AuthorBookCount(ctx, r.a.ID)
	if err != nil {
		return 0, toGraphQLError(err)
	}
	return int32(n), nil
}

type userResolver struct {
	u models.User
}

func (r *userResolver) ID() graphql.ID        { return graphql.ID(r.u.ID) }
func (r *userResolver) Username() string      { return r.u.Username }
func (r *userResolver) FavoriteGenre() string { return r.u.FavoriteGenre }

type tokenResolver struct {
	value string
}

func (r *tokenResolver) Value() string { return r.value }
