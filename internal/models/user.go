package models

// User is an account allowed to run gated mutations.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	PasswordHash  string `json:"-"` // never serialized
	FavoriteGenre string `json:"favoriteGenre"`
}
