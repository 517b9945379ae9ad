package models

import "time"

type LibraryStats struct {
	Books     int       `json:"books"`
	Authors   int       `json:"authors"`
	Users     int       `json:"users"`
	UpdatedAt time.Time `json:"updated_at"`
}
