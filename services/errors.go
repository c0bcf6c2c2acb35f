package services

import "errors"

// Shared errors used across services and HTTP mapping. The four categories
// the mutating endpoints surface are: validation (400), not found (404),
// invalid transition (409), already exists (409).
var (
	// Not found
	ErrProposalNotFound = errors.New("proposal not found")
	ErrMatchNotFound    = errors.New("match not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrPlayerNotRanked  = errors.New("player is not ranked in this division")

	// Validation
	ErrValidationFailed    = errors.New("validation failed")
	ErrSenderRequired      = errors.New("sender name is required")
	ErrReceiverRequired    = errors.New("receiver name is required")
	ErrDivisionsRequired   = errors.New("at least one division is required")
	ErrInvalidProposalDate = errors.New("proposal date is not a valid timestamp")
	ErrInvalidProposalType = errors.New("proposal type must be schedule or challenge")
	ErrPhaseTypeMismatch   = errors.New("proposal phase must match its type")
	ErrInvalidStatusValue  = errors.New("invalid status value")
	ErrWinnerNotInMatch    = errors.New("winner must be one of the match players")
	ErrNoteTextRequired    = errors.New("note text is required")

	// Invalid transitions
	ErrInvalidStatusTransition = errors.New("proposal is not pending, status can no longer change")
	ErrMatchAlreadyCompleted   = errors.New("match is not scheduled, it can no longer be completed")
	ErrProposalNotConfirmed    = errors.New("proposal is not confirmed, no match can be derived")

	// Conflicts
	ErrMatchAlreadyDerived = errors.New("a match has already been derived from this proposal")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid email or pin")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPinTooShort            = errors.New("pin is too short")

	// Standings import/export
	ErrStandingsSourceUnavailable = errors.New("standings sheet source is not configured")
	ErrStandingsSheetNotFound     = errors.New("standings sheet not found for division")
	ErrStandingsSheetInvalid      = errors.New("standings sheet could not be parsed")
)
