package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frbcapl/league-system/live"
	"github.com/frbcapl/league-system/models"
	"github.com/frbcapl/league-system/repositories"
)

// Accepted layouts for the proposal date, most specific first.
var proposalDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

type CreateProposalInput struct {
	SenderName   string   `json:"senderName"`
	ReceiverName string   `json:"receiverName"`
	Divisions    []string `json:"divisions"`
	Type         string   `json:"type"`
	Phase        string   `json:"phase"`
	Date         string   `json:"date"`
	Location     *string  `json:"location"`
	Notes        *string  `json:"notes"`
}

type ProposalService interface {
	CreateProposal(ctx context.Context, input CreateProposalInput) (*models.Proposal, error)
	ListProposals(ctx context.Context, filter repositories.ProposalFilter) ([]*models.Proposal, error)

	// SetProposalStatus moves a pending proposal to confirmed or rejected.
	// Confirming derives the match in the same transaction: a confirmed
	// proposal never exists without its match.
	SetProposalStatus(ctx context.Context, id int, status models.ProposalStatus, note *string) (*models.Proposal, error)

	// DeleteProposal is an idempotent admin hard delete. The bool reports
	// whether a record actually existed.
	DeleteProposal(ctx context.Context, id int) (bool, error)
}

type proposalService struct {
	tx           TxRunner
	proposalRepo repositories.ProposalRepository
	matchRepo    repositories.MatchRepository
	hub          LifecycleBroadcaster
}

func NewProposalService(
	tx TxRunner,
	proposalRepo repositories.ProposalRepository,
	matchRepo repositories.MatchRepository,
	hub LifecycleBroadcaster,
) ProposalService {
	return &proposalService{
		tx:           tx,
		proposalRepo: proposalRepo,
		matchRepo:    matchRepo,
		hub:          hub,
	}
}

func parseProposalDate(raw string) (time.Time, error) {
	for _, layout := range proposalDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidProposalDate
}

func parseProposalType(raw string) (models.ProposalType, error) {
	switch models.ProposalType(raw) {
	case models.ProposalTypeSchedule, models.ProposalTypeChallenge:
		return models.ProposalType(raw), nil
	default:
		return "", ErrInvalidProposalType
	}
}

func (s *proposalService) CreateProposal(ctx context.Context, input CreateProposalInput) (*models.Proposal, error) {
	if strings.TrimSpace(input.SenderName) == "" {
		return nil, ErrSenderRequired
	}
	if strings.TrimSpace(input.ReceiverName) == "" {
		return nil, ErrReceiverRequired
	}

	divisions := make([]string, 0, len(input.Divisions))
	for _, d := range input.Divisions {
		if trimmed := strings.TrimSpace(d); trimmed != "" {
			divisions = append(divisions, trimmed)
		}
	}
	if len(divisions) == 0 {
		return nil, ErrDivisionsRequired
	}

	proposalType, err := parseProposalType(input.Type)
	if err != nil {
		return nil, err
	}

	// Phase mirrors type; an omitted phase defaults to it, a divergent one
	// is rejected rather than silently coerced.
	phase := proposalType
	if input.Phase != "" {
		phase, err = parseProposalType(input.Phase)
		if err != nil {
			return nil, err
		}
		if phase != proposalType {
			return nil, ErrPhaseTypeMismatch
		}
	}

	date, err := parseProposalDate(input.Date)
	if err != nil {
		return nil, err
	}

	proposal := &models.Proposal{
		SenderName:   strings.TrimSpace(input.SenderName),
		ReceiverName: strings.TrimSpace(input.ReceiverName),
		Divisions:    divisions,
		Type:         proposalType,
		Phase:        phase,
		Status:       models.ProposalStatusPending,
		Date:         date,
		Location:     input.Location,
		Notes:        input.Notes,
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	for _, division := range proposal.Divisions {
		s.hub.BroadcastToDivision(division, live.EventProposalCreated, proposal)
	}
	return proposal, nil
}

func (s *proposalService) ListProposals(ctx context.Context, filter repositories.ProposalFilter) ([]*models.Proposal, error) {
	proposals, err := s.proposalRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

func (s *proposalService) SetProposalStatus(ctx context.Context, id int, status models.ProposalStatus, note *string) (*models.Proposal, error) {
	if status != models.ProposalStatusConfirmed && status != models.ProposalStatusRejected {
		return nil, ErrInvalidStatusValue
	}

	var proposal *models.Proposal
	var derived *models.Match

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		// The row lock serializes concurrent transitions per proposal: the
		// second confirm sees a non-pending status and fails here.
		locked, err := s.proposalRepo.GetByIDForUpdate(ctx, exec, id)
		if err != nil {
			if errors.Is(err, repositories.ErrProposalNotFound) {
				return ErrProposalNotFound
			}
			return err
		}

		if locked.Status != models.ProposalStatusPending {
			return ErrInvalidStatusTransition
		}

		if err := s.proposalRepo.UpdateStatus(ctx, exec, id, status, note); err != nil {
			return fmt.Errorf("failed to update proposal %d status: %w", id, err)
		}
		locked.Status = status
		if note != nil {
			locked.StatusNote = note
		}

		if status == models.ProposalStatusConfirmed {
			match := newMatchFromProposal(locked)
			if err := s.matchRepo.Create(ctx, exec, match); err != nil {
				if errors.Is(err, repositories.ErrMatchProposalConflict) {
					return ErrMatchAlreadyDerived
				}
				return fmt.Errorf("failed to derive match from proposal %d: %w", id, err)
			}
			derived = match
		}

		proposal = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, division := range proposal.Divisions {
		s.hub.BroadcastToDivision(division, live.EventProposalUpdated, proposal)
	}
	if derived != nil {
		s.hub.BroadcastToDivision(derived.Division, live.EventMatchCreated, derived)
	}
	return proposal, nil
}

func (s *proposalService) DeleteProposal(ctx context.Context, id int) (bool, error) {
	deleted, err := s.proposalRepo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete proposal %d: %w", id, err)
	}
	return deleted, nil
}
