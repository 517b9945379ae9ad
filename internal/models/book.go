package models

// Book references its author by id; genres are stored as a set.
type Book struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Published int      `json:"published"`
	AuthorID  string   `json:"authorId"`
	Genres    []string `json:"genres"`
}
