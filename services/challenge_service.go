package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/frbcapl/league-system/config"
	"github.com/frbcapl/league-system/models"
	"github.com/frbcapl/league-system/repositories"
	"golang.org/x/sync/errgroup"
)

// ChallengeService computes ladder-phase eligibility from match history plus
// the division standings. Every method is read-only.
type ChallengeService interface {
	GetPlayerStats(ctx context.Context, playerName, division string) (*models.ChallengeStats, error)
	GetEligibleOpponents(ctx context.Context, challengerName, division string) ([]*models.Opponent, error)
	ValidateChallenge(ctx context.Context, senderName, receiverName, division string) (*models.ChallengeValidation, error)
}

type challengeService struct {
	standingRepo repositories.StandingRepository
	matchRepo    repositories.MatchRepository
	proposalRepo repositories.ProposalRepository
	rules        config.ChallengeRules
}

func NewChallengeService(
	standingRepo repositories.StandingRepository,
	matchRepo repositories.MatchRepository,
	proposalRepo repositories.ProposalRepository,
	rules config.ChallengeRules,
) ChallengeService {
	return &challengeService{
		standingRepo: standingRepo,
		matchRepo:    matchRepo,
		proposalRepo: proposalRepo,
		rules:        rules,
	}
}

// challengeCounters tallies a player's challenge-phase match history.
// player1 is always the challenger side, player2 the challenged side.
type challengeCounters struct {
	total        int
	asChallenger int
	challenged   int
}

func countChallenges(matches []*models.Match, playerName string) challengeCounters {
	var c challengeCounters
	for _, m := range matches {
		switch playerName {
		case m.Player1ID:
			c.total++
			c.asChallenger++
		case m.Player2ID:
			c.total++
			c.challenged++
		}
	}
	return c
}

func (s *challengeService) statsFrom(standing *models.Standing, counters challengeCounters) *models.ChallengeStats {
	remaining := s.rules.MaxChallengeMatches - counters.asChallenger
	if remaining < 0 {
		remaining = 0
	}
	return &models.ChallengeStats{
		PlayerName:             standing.PlayerName,
		Division:               standing.Division,
		CurrentStanding:        standing.Rank,
		TotalChallengeMatches:  counters.total,
		MatchesAsChallenger:    counters.asChallenger,
		TimesChallenged:        counters.challenged,
		RequiredDefenses:       s.rules.RequiredDefenses,
		RemainingChallenges:    remaining,
		IsEligibleForChallenge: remaining > 0,
		IsEligibleForDefense:   counters.challenged < s.rules.RequiredDefenses,
	}
}

func (s *challengeService) GetPlayerStats(ctx context.Context, playerName, division string) (*models.ChallengeStats, error) {
	var standing *models.Standing
	var challenges []*models.Match

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		standing, err = s.standingRepo.GetByDivisionAndPlayer(gctx, division, playerName)
		if errors.Is(err, repositories.ErrStandingNotFound) {
			return ErrPlayerNotRanked
		}
		return err
	})
	g.Go(func() error {
		var err error
		challenges, err = s.matchRepo.ListByDivisionAndType(gctx, division, models.ProposalTypeChallenge)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.statsFrom(standing, countChallenges(challenges, playerName)), nil
}

func (s *challengeService) GetEligibleOpponents(ctx context.Context, challengerName, division string) ([]*models.Opponent, error) {
	standings, challenges, err := s.loadDivision(ctx, division)
	if err != nil {
		return nil, err
	}

	challenger := findStanding(standings, challengerName)
	if challenger == nil {
		return nil, ErrPlayerNotRanked
	}

	opponents := make([]*models.Opponent, 0)
	for _, standing := range standings {
		if standing.PlayerName == challengerName {
			continue
		}
		if !s.withinRankWindow(challenger.Rank, standing.Rank) {
			continue
		}
		// Opponents who already absorbed their required defenses this phase
		// may decline further challenges, so they are not listed.
		counters := countChallenges(challenges, standing.PlayerName)
		if counters.challenged >= s.rules.RequiredDefenses {
			continue
		}
		opponents = append(opponents, &models.Opponent{
			PlayerName: standing.PlayerName,
			Rank:       standing.Rank,
			Wins:       standing.Wins,
			Losses:     standing.Losses,
		})
	}
	return opponents, nil
}

func (s *challengeService) ValidateChallenge(ctx context.Context, senderName, receiverName, division string) (*models.ChallengeValidation, error) {
	result := &models.ChallengeValidation{Errors: []string{}}

	if senderName == receiverName {
		result.Errors = append(result.Errors, "sender and receiver must be different players")
		return result, nil
	}

	standings, challenges, err := s.loadDivision(ctx, division)
	if err != nil {
		return nil, err
	}

	sender := findStanding(standings, senderName)
	receiver := findStanding(standings, receiverName)
	if sender == nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s is not ranked in division %s", senderName, division))
	}
	if receiver == nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s is not ranked in division %s", receiverName, division))
	}
	if sender == nil || receiver == nil {
		return result, nil
	}

	senderCounters := countChallenges(challenges, senderName)
	receiverCounters := countChallenges(challenges, receiverName)

	if senderCounters.asChallenger >= s.rules.MaxChallengeMatches {
		result.Errors = append(result.Errors,
			fmt.Sprintf("sender has no remaining challenges this phase (max %d)", s.rules.MaxChallengeMatches))
	}
	if receiverCounters.challenged >= s.rules.RequiredDefenses {
		result.Errors = append(result.Errors, "receiver is not eligible to be challenged")
	}

	if receiver.Rank >= sender.Rank {
		result.Errors = append(result.Errors, "challenges may only target players ranked above the sender")
	} else if !s.withinRankWindow(sender.Rank, receiver.Rank) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("rank window exceeded (may challenge at most %d spots up)", s.rules.RankWindow))
	}

	alreadyChallenged, err := s.hasOpenChallenge(ctx, senderName, receiverName, division, challenges)
	if err != nil {
		return nil, err
	}
	if alreadyChallenged {
		result.Errors = append(result.Errors, "sender has already challenged this player this cycle")
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}

func (s *challengeService) loadDivision(ctx context.Context, division string) ([]*models.Standing, []*models.Match, error) {
	var standings []*models.Standing
	var challenges []*models.Match

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		standings, err = s.standingRepo.ListByDivision(gctx, division)
		return err
	})
	g.Go(func() error {
		var err error
		challenges, err = s.matchRepo.ListByDivisionAndType(gctx, division, models.ProposalTypeChallenge)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return standings, challenges, nil
}

func findStanding(standings []*models.Standing, playerName string) *models.Standing {
	for _, s := range standings {
		if s.PlayerName == playerName {
			return s
		}
	}
	return nil
}

// withinRankWindow reports whether a player at challengerRank may reach a
// target at targetRank. Rank 1 is the top of the ladder; challenges go up
// only, at most RankWindow spots.
func (s *challengeService) withinRankWindow(challengerRank, targetRank int) bool {
	diff := challengerRank - targetRank
	return diff >= 1 && diff <= s.rules.RankWindow
}

// hasOpenChallenge reports whether the sender already has a challenge match
// or a pending challenge proposal against the receiver this cycle.
func (s *challengeService) hasOpenChallenge(ctx context.Context, senderName, receiverName, division string, challenges []*models.Match) (bool, error) {
	for _, m := range challenges {
		if m.Player1ID == senderName && m.Player2ID == receiverName {
			return true, nil
		}
	}

	pending := models.ProposalStatusPending
	proposals, err := s.proposalRepo.List(ctx, repositories.ProposalFilter{
		Division: &division,
		Status:   &pending,
	})
	if err != nil {
		return false, fmt.Errorf("failed to list pending proposals for division %s: %w", division, err)
	}
	for _, p := range proposals {
		if p.Type == models.ProposalTypeChallenge && p.SenderName == senderName && p.ReceiverName == receiverName {
			return true, nil
		}
	}
	return false, nil
}
