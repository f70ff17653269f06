// Package standings derives player statistics and the ranking order from the
// match log. It is a pure recompute: every call rebuilds all derived fields
// from scratch, which keeps the numbers from ever drifting out of sync with
// the matches, whatever the mutation history was.
package standings

import (
	"sort"

	"github.com/zenkai-arena/tournament-server/models"
)

// Compute returns fresh copies of the given players with wins, losses,
// match points, tournament points, opponents, history, bye flag and desafio
// rebuilt from the completed non-elimination matches, sorted into standings
// order. The input slices are not modified.
func Compute(players []models.Player, matches []models.Match) []models.Player {
	updated := make([]models.Player, len(players))
	for i, p := range players {
		updated[i] = accumulate(p, matches)
	}

	// Desafio needs every opponent's fresh tournament points, so it runs as
	// a second pass over the already accumulated set.
	for i := range updated {
		updated[i].Desafio = computeDesafio(updated[i].ID, updated, matches)
	}

	sort.Slice(updated, func(i, j int) bool {
		return Less(&updated[i], &updated[j], matches)
	})
	return updated
}

// Less is the standings comparator: wins, then tournament points, then the
// head-to-head result, then desafio, then registration order. Registration
// order is unique per tournament, so the order is strict and total.
func Less(a, b *models.Player, matches []models.Match) bool {
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if a.TournamentPoints != b.TournamentPoints {
		return a.TournamentPoints > b.TournamentPoints
	}
	switch headToHead(a.ID, b.ID, matches) {
	case 1:
		return true
	case -1:
		return false
	}
	if a.Desafio != b.Desafio {
		return a.Desafio > b.Desafio
	}
	return a.RegistrationOrder < b.RegistrationOrder
}

// headToHead returns 1 if a beat b in a completed Swiss match, -1 if b beat
// a, and 0 when they never met or the match is undecided.
func headToHead(aID, bID string, matches []models.Match) int {
	for _, m := range matches {
		if m.IsElimination || m.Player1ID == nil || m.Player2ID == nil {
			continue
		}
		p1, p2 := *m.Player1ID, *m.Player2ID
		if !(p1 == aID && p2 == bID) && !(p1 == bID && p2 == aID) {
			continue
		}
		if m.WinnerID == nil {
			continue
		}
		if *m.WinnerID == aID {
			return 1
		}
		if *m.WinnerID == bID {
			return -1
		}
	}
	return 0
}

func accumulate(p models.Player, matches []models.Match) models.Player {
	p.Wins = 0
	p.Losses = 0
	p.MatchPoints = 0
	p.TournamentPoints = 0
	p.Desafio = 0
	p.Opponents = nil
	p.History = nil
	p.HasReceivedBye = false

	played := playerMatches(p.ID, matches)

	for _, m := range played {
		penalty := 0
		if m.FinishedOvertime && !m.IsBye {
			penalty = 1
		}

		var score int
		var opponent *string
		if m.Player1ID != nil && *m.Player1ID == p.ID {
			score = m.Score1
			opponent = m.Player2ID
		} else {
			score = m.Score2
			opponent = m.Player1ID
		}

		p.MatchPoints += score
		won := m.WinnerID != nil && *m.WinnerID == p.ID
		if won {
			p.Wins++
			p.TournamentPoints += score + 2
		} else {
			p.Losses++
			p.TournamentPoints += score
		}
		p.TournamentPoints -= penalty

		if opponent != nil {
			p.Opponents = append(p.Opponents, *opponent)
		}

		switch {
		case m.IsBye:
			// A bye counts as a win everywhere except the history glyph.
			p.HasReceivedBye = true
			p.History = append(p.History, models.HistoryBye)
		case won:
			p.History = append(p.History, models.HistoryWin)
		default:
			p.History = append(p.History, models.HistoryLoss)
		}
	}

	return p
}

// playerMatches returns the player's completed Swiss matches in ascending
// round order.
func playerMatches(playerID string, matches []models.Match) []models.Match {
	var out []models.Match
	for _, m := range matches {
		if m.IsElimination || m.Status != models.MatchStatusCompleted {
			continue
		}
		if m.HasPlayer(playerID) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out
}

// computeDesafio sums the tournament points of every opponent that defeated
// the player in a completed Swiss match.
func computeDesafio(playerID string, updated []models.Player, matches []models.Match) int {
	total := 0
	for _, m := range matches {
		if m.IsElimination || m.Status != models.MatchStatusCompleted {
			continue
		}
		if m.Player1ID == nil || m.Player2ID == nil || m.WinnerID == nil {
			continue
		}
		var opponentID string
		switch {
		case *m.Player1ID == playerID:
			opponentID = *m.Player2ID
		case *m.Player2ID == playerID:
			opponentID = *m.Player1ID
		default:
			continue
		}
		if *m.WinnerID != opponentID {
			continue
		}
		for i := range updated {
			if updated[i].ID == opponentID {
				total += updated[i].TournamentPoints
				break
			}
		}
	}
	return total
}
