package brackets

import "github.com/zenkai-arena/tournament-server/models"

// PropagateResult pushes the outcome of a completed elimination match into
// its successor matches: the winner into NextMatchID, the loser into
// LoserNextMatchID. Targets fill first empty slot first; the two matches
// feeding a successor race for slot 1 in completion order.
//
// A player already present in the target is never placed again, so
// re-submitting a result does not duplicate anyone into a second slot.
func PropagateResult(matches []models.Match, completed models.Match) {
	if !completed.IsElimination || completed.Status != models.MatchStatusCompleted || completed.WinnerID == nil {
		return
	}

	if completed.NextMatchID != nil {
		placeInMatch(matches, *completed.NextMatchID, *completed.WinnerID)
	}

	if completed.LoserNextMatchID != nil {
		if loser := completed.LoserID(); loser != nil {
			placeInMatch(matches, *completed.LoserNextMatchID, *loser)
		}
	}
}

func placeInMatch(matches []models.Match, matchID, playerID string) {
	for i := range matches {
		if matches[i].ID != matchID {
			continue
		}
		if matches[i].HasPlayer(playerID) {
			return
		}
		id := playerID
		if matches[i].Player1ID == nil {
			matches[i].Player1ID = &id
		} else if matches[i].Player2ID == nil {
			matches[i].Player2ID = &id
		}
		return
	}
}
