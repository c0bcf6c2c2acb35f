package models

// ChallengeStats is derived per player and division from match history plus
// the division standings. It is never stored.
type ChallengeStats struct {
	PlayerName             string `json:"playerName"`
	Division               string `json:"division"`
	CurrentStanding        int    `json:"currentStanding"`
	TotalChallengeMatches  int    `json:"totalChallengeMatches"`
	MatchesAsChallenger    int    `json:"matchesAsChallenger"`
	TimesChallenged        int    `json:"timesChallenged"`
	RequiredDefenses       int    `json:"requiredDefenses"`
	RemainingChallenges    int    `json:"remainingChallenges"`
	IsEligibleForChallenge bool   `json:"isEligibleForChallenges"`
	IsEligibleForDefense   bool   `json:"isEligibleForDefense"`
}

// Opponent is one entry of the eligible-opponents list for a challenger.
type Opponent struct {
	PlayerName string `json:"playerName"`
	Rank       int    `json:"rank"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
}

// ChallengeValidation is the result of the pre-check clients run before
// creating a challenge proposal.
type ChallengeValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}
