package service

import (
	"strings"
	"time"
)

// NewUser carries addUser arguments; Password is plaintext.
type NewUser struct {
	Username      string
	Password      string
	FavoriteGenre string
}

type NewBook struct {
	Title     string
	Author    string // author name; created when unknown
	Published int
	Genres    []string
}

// BookFilter holds the optional allBooks arguments. Empty means not given.
type BookFilter struct {
	Author string
	Genre  string
}

// LogFilter supports activity-log filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "" or one of the models.Event* types
}

// normalizeName is applied to usernames, author names, titles and genres
// both when they are stored and when they are looked up.
func normalizeName(s string) string {
	return strings.TrimSpace(s)
}
