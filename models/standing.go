package models

import "time"

// Standing is one row of a division ladder. The rows are maintained by league
// admins (imported from their standings sheet), the service only reads them
// when computing challenge eligibility.
type Standing struct {
	ID         int       `json:"id" db:"id"`
	Division   string    `json:"division" db:"division"`
	PlayerName string    `json:"playerName" db:"player_name"`
	Rank       int       `json:"rank" db:"rank"`
	Wins       int       `json:"wins" db:"wins"`
	Losses     int       `json:"losses" db:"losses"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
