package repository

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"library_api/internal/models"
	"library_api/internal/repository/db"
)

func newSQLiteRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewRepository(conn)
}

func titles(books []models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	sort.Strings(out)
	return out
}

func TestSQLite_BookFilters(t *testing.T) {
	repos := newSQLiteRepo(t)
	c := ctx(t)

	martin, err := repos.Authors.Create(c, "Robert Martin")
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	fowler, err := repos.Authors.Create(c, "Martin Fowler")
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	for _, b := range []models.Book{
		{Title: "Clean Code", Published: 2008, AuthorID: martin.ID, Genres: []string{"refactoring"}},
		{Title: "Agile software development", Published: 2002, AuthorID: martin.ID, Genres: []string{"agile", "patterns", "design"}},
		{Title: "Refactoring, edition 2", Published: 2018, AuthorID: fowler.ID, Genres: []string{"refactoring"}},
		{Title: "Fantasy of Patterns", Published: 2020, AuthorID: fowler.ID, Genres: []string{"fantasy-ish"}},
	} {
		if _, err := repos.Books.Create(c, b); err != nil {
			t.Fatalf("create book %q: %v", b.Title, err)
		}
	}

	cases := []struct {
		name  string
		query BookQuery
		want  []string
	}{
		{"all", BookQuery{}, []string{"Agile software development", "Clean Code", "Fantasy of Patterns", "Refactoring, edition 2"}},
		{"by author", BookQuery{AuthorID: martin.ID}, []string{"Agile software development", "Clean Code"}},
		{"by genre exact element", BookQuery{Genre: "refactoring"}, []string{"Clean Code", "Refactoring, edition 2"}},
		{"genre is not substring match", BookQuery{Genre: "fantasy"}, []string{}},
		{"intersection", BookQuery{AuthorID: fowler.ID, Genre: "refactoring"}, []string{"Refactoring, edition 2"}},
		{"match none", BookQuery{MatchNone: true}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			books, err := repos.Books.List(c, tc.query)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			got := titles(books)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}

	if n, err := repos.Books.CountByAuthor(c, martin.ID); err != nil || n != 2 {
		t.Fatalf("CountByAuthor: %d, %v", n, err)
	}
}

func TestSQLite_DuplicatesMapToErrDuplicate(t *testing.T) {
	repos := newSQLiteRepo(t)
	c := ctx(t)

	a, err := repos.Authors.Create(c, "Sandi Metz")
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	if _, err := repos.Authors.Create(c, "Sandi Metz"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate author: got %v, want ErrDuplicate", err)
	}

	book := models.Book{Title: "Practical OO Design", Published: 2012, AuthorID: a.ID}
	if _, err := repos.Books.Create(c, book); err != nil {
		t.Fatalf("create book: %v", err)
	}
	if _, err := repos.Books.Create(c, book); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate book: got %v, want ErrDuplicate", err)
	}
}

func TestSQLite_UsernamesNotUnique(t *testing.T) {
	repos := newSQLiteRepo(t)
	c := ctx(t)

	first, err := repos.Users.Create(c, models.User{Username: "alice", PasswordHash: "h1", FavoriteGenre: "fantasy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repos.Users.Create(c, models.User{Username: "alice", PasswordHash: "h2", FavoriteGenre: "crime"}); err != nil {
		t.Fatalf("second create with same username: %v", err)
	}

	got, err := repos.Users.GetByUsername(c, "alice")
	if err != nil || got == nil || got.ID != first.ID {
		t.Fatalf("GetByUsername should return the first registration: %+v, %v", got, err)
	}
	if n, _ := repos.Users.Count(c); n != 2 {
		t.Fatalf("Count: %d", n)
	}
}

func TestSQLite_SetBorn(t *testing.T) {
	repos := newSQLiteRepo(t)
	c := ctx(t)

	if _, err := repos.Authors.Create(c, "Reijo Mäki"); err != nil {
		t.Fatalf("create: %v", err)
	}
	a, err := repos.Authors.SetBorn(c, "Reijo Mäki", 1958)
	if err != nil || a == nil || a.Born == nil || *a.Born != 1958 {
		t.Fatalf("SetBorn: %+v, %v", a, err)
	}
	a, err = repos.Authors.SetBorn(c, "Nobody", 1900)
	if err != nil || a != nil {
		t.Fatalf("SetBorn(unknown): %+v, %v", a, err)
	}
}

func TestSQLite_EventsRoundTrip(t *testing.T) {
	repos := newSQLiteRepo(t)
	c := ctx(t)

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, typ := range []string{models.EventUserAdded, models.EventLogin, models.EventBookAdded} {
		err := repos.Events.Append(c, models.ActivityEvent{
			OccurredAt:  base.Add(time.Duration(i) * time.Hour),
			Type:        typ,
			Description: typ,
			Metadata:    map[string]any{"i": i},
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, err := repos.Events.List(c, time.Time{}, time.Time{}, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("List all: %d, %v", len(all), err)
	}
	if !all[0].OccurredAt.Equal(base) {
		t.Fatalf("occurred_at round trip: got %v", all[0].OccurredAt)
	}

	ranged, err := repos.Events.List(c, base.Add(30*time.Minute), base.Add(2*time.Hour), "")
	if err != nil || len(ranged) != 2 {
		t.Fatalf("List ranged: %d, %v", len(ranged), err)
	}

	logins, err := repos.Events.List(c, time.Time{}, time.Time{}, "login")
	if err != nil || len(logins) != 1 || logins[0].Type != models.EventLogin {
		t.Fatalf("List by type: %+v, %v", logins, err)
	}
}
