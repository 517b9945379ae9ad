package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"library_api/internal/auth"
	"library_api/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) (*AuthService, *memUsers, *memEvents, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	users := &memUsers{}
	events := &memEvents{}
	svc := NewAuthService(users, events, auth.NewPasswordHasher(bcrypt.MinCost), tokens, nil)
	return svc, users, events, tokens
}

// spyHasher records whether Hash was reached.
type spyHasher struct {
	PasswordHasher
	hashed int
}

func (s *spyHasher) Hash(p string) (string, error) {
	s.hashed++
	return s.PasswordHasher.Hash(p)
}

func TestAddUser_StoresHashNotPassword(t *testing.T) {
	svc, users, events, _ := newTestAuth(t)

	u, err := svc.AddUser(context.Background(), NewUser{Username: "alice", Password: "secret1", FavoriteGenre: "fantasy"})
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if u.ID == "" || u.Username != "alice" || u.FavoriteGenre != "fantasy" {
		t.Fatalf("unexpected user: %+v", u)
	}
	stored := users.users[0]
	if stored.PasswordHash == "secret1" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if got := events.types(); len(got) != 1 || got[0] != models.EventUserAdded {
		t.Fatalf("events: %v", got)
	}
}

func TestAddUser_ValidationBeforeHashing(t *testing.T) {
	cases := []struct {
		name  string
		in    NewUser
		field string
	}{
		{"short username", NewUser{Username: "bob", Password: "secret1", FavoriteGenre: "crime"}, "username"},
		{"blank username", NewUser{Username: "      ", Password: "secret1", FavoriteGenre: "crime"}, "username"},
		{"short password", NewUser{Username: "bobby", Password: "1234", FavoriteGenre: "crime"}, "password"},
		{"missing genre", NewUser{Username: "bobby", Password: "secret1", FavoriteGenre: " "}, "favoriteGenre"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &memUsers{}
			hasher := &spyHasher{PasswordHasher: auth.NewPasswordHasher(bcrypt.MinCost)}
			tokens, _ := auth.NewTokenManager("s", time.Hour)
			svc := NewAuthService(users, &memEvents{}, hasher, tokens, nil)

			_, err := svc.AddUser(context.Background(), tc.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field: got %q, want %q", ve.Field, tc.field)
			}
			if hasher.hashed != 0 {
				t.Fatalf("hash must not run for invalid input")
			}
			if users.creates != 0 {
				t.Fatalf("no user must be written")
			}
		})
	}
}

func TestAddUser_PasswordNotEchoed(t *testing.T) {
	svc, _, _, _ := newTestAuth(t)
	_, err := svc.AddUser(context.Background(), NewUser{Username: "bobby", Password: "abc", FavoriteGenre: "crime"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Value != "" {
		t.Fatalf("password value must not be echoed: %+v", ve)
	}
}

func TestAddUser_HashingErrorIsValidation(t *testing.T) {
	svc, users, _, _ := newTestAuth(t)
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'x'
	}
	_, err := svc.AddUser(context.Background(), NewUser{Username: "bobby", Password: string(long), FavoriteGenre: "crime"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "password" {
		t.Fatalf("expected password ValidationError, got %v", err)
	}
	var he *auth.HashingError
	if !errors.As(err, &he) {
		t.Fatalf("cause should be a HashingError: %v", err)
	}
	if users.creates != 0 {
		t.Fatalf("no user must be written")
	}
}

func TestAddUser_RepoError(t *testing.T) {
	svc, users, _, _ := newTestAuth(t)
	users.err = errStoreDown
	if _, err := svc.AddUser(context.Background(), NewUser{Username: "carla", Password: "pass123", FavoriteGenre: "crime"}); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, events, tokens := newTestAuth(t)
	ctx := context.Background()
	u, err := svc.AddUser(ctx, NewUser{Username: "alice", Password: "secret1", FavoriteGenre: "fantasy"})
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		tok, err := svc.Login(ctx, "alice", "secret1")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		claims, err := tokens.Verify(tok)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if claims.UserID != u.ID || claims.Username != "alice" {
			t.Fatalf("claims: %+v", claims)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		tok, err := svc.Login(ctx, "alice", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if tok != "" {
			t.Fatalf("no token may be returned on failure, got %q", tok)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		tok, err := svc.Login(ctx, "mallory", "secret1")
		if !errors.Is(err, ErrInvalidCredentials) || tok != "" {
			t.Fatalf("expected ErrInvalidCredentials and no token, got %q, %v", tok, err)
		}
	})

	got := events.types()
	want := []string{models.EventUserAdded, models.EventLogin, models.EventLoginFailed, models.EventLoginFailed}
	if len(got) != len(want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events: got %v, want %v", got, want)
		}
	}
}

func TestLogin_StoreError(t *testing.T) {
	svc, users, _, _ := newTestAuth(t)
	users.err = errStoreDown
	if _, err := svc.Login(context.Background(), "alice", "secret1"); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestResolveUser(t *testing.T) {
	svc, users, _, tokens := newTestAuth(t)
	ctx := context.Background()
	u, _ := svc.AddUser(ctx, NewUser{Username: "alice", Password: "secret1", FavoriteGenre: "fantasy"})

	t.Run("valid token", func(t *testing.T) {
		tok, _ := tokens.Issue(u.Username, u.ID)
		got, err := svc.ResolveUser(ctx, tok)
		if err != nil || got == nil || got.ID != u.ID {
			t.Fatalf("ResolveUser: %+v, %v", got, err)
		}
	})

	t.Run("invalid token is anonymous", func(t *testing.T) {
		got, err := svc.ResolveUser(ctx, "not.a.token")
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil), got %+v, %v", got, err)
		}
	})

	t.Run("deleted subject is anonymous", func(t *testing.T) {
		tok, _ := tokens.Issue("ghost", "u-404")
		got, err := svc.ResolveUser(ctx, tok)
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil), got %+v, %v", got, err)
		}
	})

	t.Run("store failure is reported", func(t *testing.T) {
		tok, _ := tokens.Issue(u.Username, u.ID)
		users.err = errStoreDown
		defer func() { users.err = nil }()
		if _, err := svc.ResolveUser(ctx, tok); !errors.Is(err, errStoreDown) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}

func TestListUsers(t *testing.T) {
	svc, _, _, _ := newTestAuth(t)
	ctx := context.Background()
	for _, name := range []string{"alice", "bobby"} {
		if _, err := svc.AddUser(ctx, NewUser{Username: name, Password: "secret1", FavoriteGenre: "crime"}); err != nil {
			t.Fatalf("AddUser: %v", err)
		}
	}
	users, err := svc.ListUsers(ctx)
	if err != nil || len(users) != 2 {
		t.Fatalf("ListUsers: %d, %v", len(users), err)
	}
}

func TestLogin_PaddedUsernameRoundTrip(t *testing.T) {
	svc, _, _, tokens := newTestAuth(t)
	ctx := context.Background()
	u, err := svc.AddUser(ctx, NewUser{Username: "alice ", Password: "secret1", FavoriteGenre: "fantasy"})
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("stored username %q", u.Username)
	}

	for _, name := range []string{"alice ", "alice", " alice"} {
		tok, err := svc.Login(ctx, name, "secret1")
		if err != nil {
			t.Fatalf("Login(%q): %v", name, err)
		}
		claims, err := tokens.Verify(tok)
		if err != nil || claims.UserID != u.ID {
			t.Fatalf("Login(%q) token: %+v, %v", name, claims, err)
		}
	}
}
