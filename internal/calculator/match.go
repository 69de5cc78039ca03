package calculator

import "github.com/badsession/badsession/internal/models"

// TeamCapacity returns how many players each team fields for the match type.
func TeamCapacity(matchType models.MatchType) int {
	switch matchType {
	case models.MatchDoubles, models.MatchMixedDoubles:
		return 2
	default:
		return 1
	}
}

// Winner returns the team with the strictly higher score, or nil on a tie.
func Winner(teamAScore, teamBScore int) *models.Team {
	var winner models.Team
	switch {
	case teamAScore > teamBScore:
		winner = models.TeamA
	case teamBScore > teamAScore:
		winner = models.TeamB
	default:
		return nil
	}
	return &winner
}
