package brackets

import (
	"sort"

	"github.com/zenkai-arena/tournament-server/models"
)

// ActiveRound returns the lowest elimination round that still has an
// incomplete match. When every bracket match is complete it returns the
// highest round, and 0 when there are no elimination matches at all.
func ActiveRound(elimMatches []models.Match) int {
	if len(elimMatches) == 0 {
		return 0
	}

	rounds := make([]int, 0, 3)
	seen := make(map[int]bool)
	for _, m := range elimMatches {
		if !seen[m.Round] {
			seen[m.Round] = true
			rounds = append(rounds, m.Round)
		}
	}
	sort.Ints(rounds)

	for _, r := range rounds {
		for _, m := range elimMatches {
			if m.Round == r && m.Status != models.MatchStatusCompleted {
				return r
			}
		}
	}
	return rounds[len(rounds)-1]
}

// AllComplete reports whether every given match has been completed.
func AllComplete(matches []models.Match) bool {
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted {
			return false
		}
	}
	return true
}

// StageLabel names an elimination round for display.
func StageLabel(round int) string {
	switch round {
	case 1:
		return "Quarterfinals"
	case 2:
		return "Semifinals"
	case 3:
		return "Finals"
	default:
		return ""
	}
}
