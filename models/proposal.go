package models

import (
	"time"

	"github.com/lib/pq"
)

// ProposalStatus mirrors the proposal status ENUM in the database.
type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusConfirmed ProposalStatus = "confirmed"
	ProposalStatusRejected  ProposalStatus = "rejected"
)

// ProposalType distinguishes ordinary scheduling from ladder challenges.
// Phase carries the same value set; the two are kept equal on write.
type ProposalType string

const (
	ProposalTypeSchedule  ProposalType = "schedule"
	ProposalTypeChallenge ProposalType = "challenge"
)

type Proposal struct {
	ID           int            `json:"id" db:"id"`
	SenderName   string         `json:"senderName" db:"sender_name"`
	ReceiverName string         `json:"receiverName" db:"receiver_name"`
	Divisions    pq.StringArray `json:"divisions" db:"divisions"`
	Type         ProposalType   `json:"type" db:"type"`
	Phase        ProposalType   `json:"phase" db:"phase"`
	Status       ProposalStatus `json:"status" db:"status"`
	Date         time.Time      `json:"date" db:"date"`
	Location     *string        `json:"location,omitempty" db:"location"`
	Notes        *string        `json:"notes,omitempty" db:"notes"`
	StatusNote   *string        `json:"statusNote,omitempty" db:"status_note"`
	Completed    bool           `json:"completed" db:"completed"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
}
