package models

import "time"

// Note is a league announcement shown on the dashboards.
type Note struct {
	ID        int       `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	Author    string    `json:"author" db:"author"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
