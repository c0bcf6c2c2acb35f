package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
)

// Match is a confirmed game derived from a proposal. Player identifiers are
// the league player names, matching what the standings sheet uses.
type Match struct {
	ID            int          `json:"id" db:"id"`
	ProposalID    *int         `json:"proposalId,omitempty" db:"proposal_id"`
	Player1ID     string       `json:"player1Id" db:"player1_id"`
	Player2ID     string       `json:"player2Id" db:"player2_id"`
	Division      string       `json:"division" db:"division"`
	Type          ProposalType `json:"type" db:"type"`
	Status        MatchStatus  `json:"status" db:"status"`
	ScheduledDate time.Time    `json:"scheduledDate" db:"scheduled_date"`
	Location      *string      `json:"location,omitempty" db:"location"`
	Winner        *string      `json:"winner,omitempty" db:"winner"`
	Score         *string      `json:"score,omitempty" db:"score"`
	CompletedDate *time.Time   `json:"completedDate,omitempty" db:"completed_date"`
	Notes         *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
}

// MatchStats are the per-division aggregate counters.
type MatchStats struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
}
