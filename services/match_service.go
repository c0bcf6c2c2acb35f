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

type CompleteMatchInput struct {
	Winner string  `json:"winner"`
	Score  string  `json:"score"`
	Notes  *string `json:"notes"`
}

type MatchService interface {
	// CreateMatchFromProposal derives the match for an already-confirmed
	// proposal. Normally SetProposalStatus does this atomically; this path
	// exists for direct client flows and backfills.
	CreateMatchFromProposal(ctx context.Context, proposalID int) (*models.Match, error)

	// CompleteMatch finalizes a scheduled match and mirrors the completed
	// flag onto the originating proposal in the same transaction.
	CompleteMatch(ctx context.Context, id int, input CompleteMatchInput) (*models.Match, error)

	ListMatchesByStatus(ctx context.Context, division, status string) ([]*models.Match, error)
	ListMatchesByPlayer(ctx context.Context, playerID, division string) ([]*models.Match, error)
	GetMatchStats(ctx context.Context, division string) (models.MatchStats, error)
}

type matchService struct {
	tx           TxRunner
	matchRepo    repositories.MatchRepository
	proposalRepo repositories.ProposalRepository
	hub          LifecycleBroadcaster
}

func NewMatchService(
	tx TxRunner,
	matchRepo repositories.MatchRepository,
	proposalRepo repositories.ProposalRepository,
	hub LifecycleBroadcaster,
) MatchService {
	return &matchService{
		tx:           tx,
		matchRepo:    matchRepo,
		proposalRepo: proposalRepo,
		hub:          hub,
	}
}

// newMatchFromProposal maps a confirmed proposal into its scheduled match.
// The sender is always player1 (the challenger side for challenge matches).
// A proposal can span several divisions; the match belongs to the first.
func newMatchFromProposal(proposal *models.Proposal) *models.Match {
	proposalID := proposal.ID
	return &models.Match{
		ProposalID:    &proposalID,
		Player1ID:     proposal.SenderName,
		Player2ID:     proposal.ReceiverName,
		Division:      proposal.Divisions[0],
		Type:          proposal.Type,
		Status:        models.MatchStatusScheduled,
		ScheduledDate: proposal.Date,
		Location:      proposal.Location,
	}
}

func (s *matchService) CreateMatchFromProposal(ctx context.Context, proposalID int) (*models.Match, error) {
	var match *models.Match

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		proposal, err := s.proposalRepo.GetByIDForUpdate(ctx, exec, proposalID)
		if err != nil {
			if errors.Is(err, repositories.ErrProposalNotFound) {
				return ErrProposalNotFound
			}
			return err
		}

		if proposal.Status != models.ProposalStatusConfirmed {
			return ErrProposalNotConfirmed
		}

		m := newMatchFromProposal(proposal)
		if err := s.matchRepo.Create(ctx, exec, m); err != nil {
			if errors.Is(err, repositories.ErrMatchProposalConflict) {
				return ErrMatchAlreadyDerived
			}
			return fmt.Errorf("failed to create match from proposal %d: %w", proposalID, err)
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToDivision(match.Division, live.EventMatchCreated, match)
	return match, nil
}

func (s *matchService) CompleteMatch(ctx context.Context, id int, input CompleteMatchInput) (*models.Match, error) {
	winner := strings.TrimSpace(input.Winner)

	var match *models.Match

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		locked, err := s.matchRepo.GetByIDForUpdate(ctx, exec, id)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}

		if locked.Status != models.MatchStatusScheduled {
			return ErrMatchAlreadyCompleted
		}
		if winner != locked.Player1ID && winner != locked.Player2ID {
			return ErrWinnerNotInMatch
		}

		completedDate := time.Now().UTC()
		if err := s.matchRepo.Complete(ctx, exec, id, winner, input.Score, input.Notes, completedDate); err != nil {
			return fmt.Errorf("failed to complete match %d: %w", id, err)
		}

		locked.Status = models.MatchStatusCompleted
		locked.Winner = &winner
		locked.Score = &input.Score
		locked.CompletedDate = &completedDate
		if input.Notes != nil {
			locked.Notes = input.Notes
		}

		// Mirror onto the originating proposal for readers of the old API
		// shape. An admin-deleted proposal leaves nothing to mirror.
		if locked.ProposalID != nil {
			err := s.proposalRepo.SetCompleted(ctx, exec, *locked.ProposalID, true)
			if err != nil && !errors.Is(err, repositories.ErrProposalNotFound) {
				return fmt.Errorf("failed to mirror completion onto proposal %d: %w", *locked.ProposalID, err)
			}
		}

		match = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToDivision(match.Division, live.EventMatchCompleted, match)
	return match, nil
}

func (s *matchService) ListMatchesByStatus(ctx context.Context, division, status string) ([]*models.Match, error) {
	matchStatus := models.MatchStatus(status)
	if matchStatus != models.MatchStatusScheduled && matchStatus != models.MatchStatusCompleted {
		return nil, ErrInvalidStatusValue
	}

	matches, err := s.matchRepo.ListByDivisionAndStatus(ctx, division, matchStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for division %s: %w", division, err)
	}
	return matches, nil
}

func (s *matchService) ListMatchesByPlayer(ctx context.Context, playerID, division string) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByPlayer(ctx, playerID, division)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for player %s: %w", playerID, err)
	}
	return matches, nil
}

func (s *matchService) GetMatchStats(ctx context.Context, division string) (models.MatchStats, error) {
	stats, err := s.matchRepo.CountByDivision(ctx, division)
	if err != nil {
		return models.MatchStats{}, fmt.Errorf("failed to count matches for division %s: %w", division, err)
	}
	return stats, nil
}
