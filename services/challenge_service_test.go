package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/frbcapl/league-system/config"
	"github.com/frbcapl/league-system/models"
)

var testRules = config.ChallengeRules{
	MaxChallengeMatches: 4,
	RequiredDefenses:    2,
	RankWindow:          4,
}

const testDivision = "FRBCAPL TEST"

type challengeFixture struct {
	svc       ChallengeService
	standings *fakeStandingRepo
	matches   *fakeMatchRepo
	proposals *fakeProposalRepo
}

// newChallengeFixture seeds a ten-player ladder, rank 1 at the top.
func newChallengeFixture() *challengeFixture {
	standings := newFakeStandingRepo()
	ladder := []string{
		"Mark Slam", "Randy Fishburn", "Vince Ivey", "Lucas Taylor", "Tony Neto",
		"Ryan Meindl", "Christopher Anderson", "Don Lowe", "Jeff Chichester", "Ben Mullenaux",
	}
	seeded := make([]*models.Standing, 0, len(ladder))
	for i, name := range ladder {
		seeded = append(seeded, &models.Standing{
			Division:   testDivision,
			PlayerName: name,
			Rank:       i + 1,
			Wins:       10 - i,
			Losses:     i,
		})
	}
	standings.seed(testDivision, seeded...)

	matches := newFakeMatchRepo()
	proposals := newFakeProposalRepo()
	return &challengeFixture{
		svc:       NewChallengeService(standings, matches, proposals, testRules),
		standings: standings,
		matches:   matches,
		proposals: proposals,
	}
}

// addChallengeMatch records a challenge match with the challenger as player1.
func (f *challengeFixture) addChallengeMatch(t *testing.T, challenger, challenged string) {
	t.Helper()
	err := f.matches.Create(context.Background(), nil, &models.Match{
		Player1ID: challenger,
		Player2ID: challenged,
		Division:  testDivision,
		Type:      models.ProposalTypeChallenge,
		Status:    models.MatchStatusScheduled,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetPlayerStats(t *testing.T) {
	f := newChallengeFixture()
	f.addChallengeMatch(t, "Tony Neto", "Lucas Taylor")
	f.addChallengeMatch(t, "Tony Neto", "Vince Ivey")
	f.addChallengeMatch(t, "Ryan Meindl", "Tony Neto")

	stats, err := f.svc.GetPlayerStats(context.Background(), "Tony Neto", testDivision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.CurrentStanding != 5 {
		t.Fatalf("expected rank 5, got %d", stats.CurrentStanding)
	}
	if stats.TotalChallengeMatches != 3 {
		t.Fatalf("expected 3 challenge matches, got %d", stats.TotalChallengeMatches)
	}
	if stats.MatchesAsChallenger != 2 {
		t.Fatalf("expected 2 matches as challenger, got %d", stats.MatchesAsChallenger)
	}
	if stats.TimesChallenged != 1 {
		t.Fatalf("expected challenged once, got %d", stats.TimesChallenged)
	}
	if stats.RemainingChallenges != 2 {
		t.Fatalf("expected 2 remaining challenges, got %d", stats.RemainingChallenges)
	}
	if !stats.IsEligibleForChallenge {
		t.Fatal("expected player with remaining budget to be eligible")
	}
	if !stats.IsEligibleForDefense {
		t.Fatal("expected player below required defenses to be defense-eligible")
	}
}

func TestGetPlayerStatsAtChallengeLimit(t *testing.T) {
	f := newChallengeFixture()
	targets := []string{"Lucas Taylor", "Vince Ivey", "Randy Fishburn", "Mark Slam"}
	for _, target := range targets {
		f.addChallengeMatch(t, "Tony Neto", target)
	}

	stats, err := f.svc.GetPlayerStats(context.Background(), "Tony Neto", testDivision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.RemainingChallenges != 0 {
		t.Fatalf("expected 0 remaining challenges, got %d", stats.RemainingChallenges)
	}
	if stats.IsEligibleForChallenge {
		t.Fatal("expected player at the challenge limit to be ineligible")
	}
}

func TestGetPlayerStatsUnrankedPlayer(t *testing.T) {
	f := newChallengeFixture()

	_, err := f.svc.GetPlayerStats(context.Background(), "Sam Kirkham", testDivision)
	if !errors.Is(err, ErrPlayerNotRanked) {
		t.Fatalf("expected ErrPlayerNotRanked, got %v", err)
	}
}

func TestGetEligibleOpponentsRespectsRankWindow(t *testing.T) {
	f := newChallengeFixture()

	// Rank 8 may reach up to rank 4, never down, never self.
	opponents, err := f.svc.GetEligibleOpponents(context.Background(), "Don Lowe", testDivision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make(map[string]bool, len(opponents))
	for _, o := range opponents {
		got[o.PlayerName] = true
	}
	want := []string{"Lucas Taylor", "Tony Neto", "Ryan Meindl", "Christopher Anderson"}
	if len(opponents) != len(want) {
		t.Fatalf("expected %d opponents, got %d (%v)", len(want), len(opponents), got)
	}
	for _, name := range want {
		if !got[name] {
			t.Fatalf("expected %s in eligible opponents, got %v", name, got)
		}
	}
}

func TestGetEligibleOpponentsSkipsDefendedOutPlayers(t *testing.T) {
	f := newChallengeFixture()

	// Tony Neto has absorbed his required defenses.
	f.addChallengeMatch(t, "Ryan Meindl", "Tony Neto")
	f.addChallengeMatch(t, "Don Lowe", "Tony Neto")

	opponents, err := f.svc.GetEligibleOpponents(context.Background(), "Christopher Anderson", testDivision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, o := range opponents {
		if o.PlayerName == "Tony Neto" {
			t.Fatal("expected Tony Neto to be excluded after required defenses")
		}
	}
}

func TestGetEligibleOpponentsUnrankedChallenger(t *testing.T) {
	f := newChallengeFixture()

	_, err := f.svc.GetEligibleOpponents(context.Background(), "Sam Kirkham", testDivision)
	if !errors.Is(err, ErrPlayerNotRanked) {
		t.Fatalf("expected ErrPlayerNotRanked, got %v", err)
	}
}

func TestValidateChallenge(t *testing.T) {
	tests := []struct {
		name     string
		arrange  func(t *testing.T, f *challengeFixture)
		sender   string
		receiver string
		valid    bool
		errHint  string
	}{
		{
			name:     "valid challenge one spot up",
			sender:   "Ryan Meindl",
			receiver: "Tony Neto",
			valid:    true,
		},
		{
			name:     "valid challenge at window edge",
			sender:   "Don Lowe",
			receiver: "Lucas Taylor",
			valid:    true,
		},
		{
			name:     "self challenge",
			sender:   "Tony Neto",
			receiver: "Tony Neto",
			errHint:  "different players",
		},
		{
			name:     "unranked sender",
			sender:   "Sam Kirkham",
			receiver: "Tony Neto",
			errHint:  "not ranked",
		},
		{
			name:     "challenge downward",
			sender:   "Tony Neto",
			receiver: "Ryan Meindl",
			errHint:  "ranked above",
		},
		{
			name:     "window exceeded",
			sender:   "Jeff Chichester",
			receiver: "Lucas Taylor",
			errHint:  "rank window",
		},
		{
			name: "sender out of challenges",
			arrange: func(t *testing.T, f *challengeFixture) {
				for _, target := range []string{"Tony Neto", "Lucas Taylor", "Vince Ivey", "Randy Fishburn"} {
					f.addChallengeMatch(t, "Ryan Meindl", target)
				}
			},
			sender:   "Ryan Meindl",
			receiver: "Christopher Anderson",
			errHint:  "no remaining challenges",
		},
		{
			name: "receiver defended out",
			arrange: func(t *testing.T, f *challengeFixture) {
				f.addChallengeMatch(t, "Ryan Meindl", "Tony Neto")
				f.addChallengeMatch(t, "Don Lowe", "Tony Neto")
			},
			sender:   "Christopher Anderson",
			receiver: "Tony Neto",
			errHint:  "not eligible to be challenged",
		},
		{
			name: "duplicate open challenge",
			arrange: func(t *testing.T, f *challengeFixture) {
				f.addChallengeMatch(t, "Ryan Meindl", "Tony Neto")
			},
			sender:   "Ryan Meindl",
			receiver: "Tony Neto",
			errHint:  "already challenged",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newChallengeFixture()
			if tc.arrange != nil {
				tc.arrange(t, f)
			}

			result, err := f.svc.ValidateChallenge(context.Background(), tc.sender, tc.receiver, testDivision)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.IsValid != tc.valid {
				t.Fatalf("expected isValid=%v, got %v (errors: %v)", tc.valid, result.IsValid, result.Errors)
			}
			if tc.valid {
				if len(result.Errors) != 0 {
					t.Fatalf("expected no errors, got %v", result.Errors)
				}
				return
			}
			if len(result.Errors) == 0 {
				t.Fatal("expected at least one validation error")
			}
			found := false
			for _, msg := range result.Errors {
				if strings.Contains(msg, tc.errHint) {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected an error containing %q, got %v", tc.errHint, result.Errors)
			}
		})
	}
}

func TestValidateChallengeSeesPendingProposal(t *testing.T) {
	f := newChallengeFixture()
	err := f.proposals.Create(context.Background(), &models.Proposal{
		SenderName:   "Ryan Meindl",
		ReceiverName: "Tony Neto",
		Divisions:    []string{testDivision},
		Type:         models.ProposalTypeChallenge,
		Phase:        models.ProposalTypeChallenge,
		Status:       models.ProposalStatusPending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := f.svc.ValidateChallenge(context.Background(), "Ryan Meindl", "Tony Neto", testDivision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected pending proposal to block a duplicate challenge, got %v", result.Errors)
	}
}
