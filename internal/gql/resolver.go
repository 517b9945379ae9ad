package gql

import (
	"context"

	"library_api/internal/auth"
	"library_api/internal/logger"
	"library_api/internal/service"
)

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	svc *service.Service
	log *logger.Logger
}

func NewResolver(svc *service.Service, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{svc: svc, log: log}
}

func (r *Resolver) BookCount(ctx context.Context) (int32, error) {
	n, err := r.svc.BookCount(ctx)
	if err != nil {
		return 0, r.fail("bookCount", err)
	}
	return int32(n), nil
}

func (r *Resolver) AuthorCount(ctx context.Context) (int32, error) {
	n, err := r.svc.AuthorCount(ctx)
	if err != nil {
		return 0, r.fail("authorCount", err)
	}
	return int32(n), nil
}

type allBooksArgs struct {
	Author *string
	Genre  *string
}

func (r *Resolver) AllBooks(ctx context.Context, args allBooksArgs) ([]*bookResolver, error) {
	var f service.BookFilter
	if args.Author != nil {
		f.Author = *args.Author
	}
	if args.Genre != nil {
		f.Genre = *args.Genre
	}
	books, err := r.svc.AllBooks(ctx, f)
	if err != nil {
		return nil, r.fail("allBooks", err)
	}
	out := make([]*bookResolver, 0, len(books))
	for _, b := range books {
		out = append(out, &bookResolver{b: b, lib: r.svc.Library})
	}
	return out, nil
}

func (r *Resolver) AllAuthors(ctx context.Context) ([]*authorResolver, error) {
	authors, err := r.svc.AllAuthors(ctx)
	if err != nil {
		return nil, r.fail("allAuthors", err)
	}
	out := make([]*authorResolver, 0, len(authors))
	for _, a := range authors {
		out = append(out, &authorResolver{a: a, lib: r.svc.Library})
	}
	return out, nil
}

func (r *Resolver) AllUsers(ctx context.Context) ([]*userResolver, error) {
	users, err := r.svc.ListUsers(ctx)
	if err != nil {
		return nil, r.fail("allUsers", err)
	}
	out := make([]*userResolver, 0, len(users))
	for _, u := range users {
		out = append(out, &userResolver{u: u})
	}
	return out, nil
}

// Me returns the request's user, or null when anonymous.
func (r *Resolver) Me(ctx context.Context) *userResolver {
	u, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil
	}
	return &userResolver{u: *u}
}

type addBookArgs struct {
	Title     string
	Author    string
	Published int32
	Genres    []string
}

func (r *Resolver) AddBook(ctx context.Context, args addBookArgs) (*bookResolver, error) {
	b, err := r.svc.AddBook(ctx, service.NewBook{
		Title:     args.Title,
		Author:    args.Author,
		Published: int(args.Published),
		Genres:    args.Genres,
	})
	if err != nil {
		return nil, r.fail("addBook", err)
	}
	return &bookResolver{b: *b, lib: r.svc.Library}, nil
}

type editAuthorArgs struct {
	Name      string
	SetBornTo int32
}

// EditAuthor yields null for an unknown author name.
func (r *Resolver) EditAuthor(ctx context.Context, args editAuthorArgs) (*authorResolver, error) {
	a, err := r.svc.EditAuthor(ctx, args.Name, int(args.SetBornTo))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.fail("editAuthor", err)
	}
	return &authorResolver{a: *a, lib: r.svc.Library}, nil
}

type addUserArgs struct {
	Username      string
	Password      string
	FavoriteGenre string
}

func (r *Resolver) AddUser(ctx context.Context, args addUserArgs) (*userResolver, error) {
	u, err := r.svc.AddUser(ctx, service.NewUser{
		Username:      args.Username,
		Password:      args.Password,
		FavoriteGenre: args.FavoriteGenre,
	})
	if err != nil {
		return nil, r.fail("addUser", err)
	}
	return &userResolver{u: *u}, nil
}

type loginArgs struct {
	Username string
	Password string
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (*tokenResolver, error) {
	token, err := r.svc.Login(ctx, args.Username, args.Password)
	if err != nil {
		return nil, r.fail("login", err)
	}
	return &tokenResolver{value: token}, nil
}

// fail logs non-domain errors before they are masked.
func (r *Resolver) fail(op string, err error) error {
	gerr := toGraphQLError(err)
	if re, ok := gerr.(*resolverError); ok && re.code == codeInternal {
		r.log.Errorw("graphql_resolver_failed", "op", op, "error", err)
	}
	return gerr
}
