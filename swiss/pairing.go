// Package swiss generates one round of Swiss pairings for a pool of players.
// When a group stage is active the caller runs it once per group and
// concatenates the results; players never cross group lines during Swiss.
package swiss

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/zenkai-arena/tournament-server/models"
)

// Pair produces the matches of the given round for one pool. Round 1 expects
// the pool in any order and shuffles it uniformly; later rounds expect the
// pool pre-sorted by standings and pair top-down.
//
// Odd pools get one bye: the bottom player in round 1, otherwise the lowest
// ranked player who has not had a bye yet (falling back to the bottom player
// when everyone has). The bye is emitted as an already completed 0-0 match.
func Pair(players []models.Player, round int, rng *rand.Rand) []models.Match {
	pool := append([]models.Player(nil), players...)

	if round == 1 {
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	}

	var matches []models.Match

	if len(pool)%2 != 0 {
		byeIdx := len(pool) - 1
		if round > 1 {
			for i := len(pool) - 1; i >= 0; i-- {
				if !pool[i].HasReceivedBye {
					byeIdx = i
					break
				}
			}
		}
		byePlayer := pool[byeIdx]
		pool = append(pool[:byeIdx], pool[byeIdx+1:]...)

		byeID := byePlayer.ID
		matches = append(matches, models.Match{
			ID:        fmt.Sprintf("R%d-BYE-%s", round, uuid.NewString()),
			Round:     round,
			Player1ID: &byeID,
			WinnerID:  &byeID,
			Status:    models.MatchStatusCompleted,
			IsBye:     true,
		})
	}

	seq := len(matches)
	for len(pool) > 0 {
		p1 := pool[0]
		pool = pool[1:]

		// First opponent down the list that p1 has not faced; if every
		// remaining player is a rematch, take the nearest one anyway.
		opponentIdx := 0
		for i := range pool {
			if !p1.HasPlayed(pool[i].ID) {
				opponentIdx = i
				break
			}
		}
		p2 := pool[opponentIdx]
		pool = append(pool[:opponentIdx], pool[opponentIdx+1:]...)

		seq++
		p1ID, p2ID := p1.ID, p2.ID
		matches = append(matches, models.Match{
			ID:        fmt.Sprintf("R%d-%d-%s", round, seq, uuid.NewString()),
			Round:     round,
			Player1ID: &p1ID,
			Player2ID: &p2ID,
			Status:    models.MatchStatusPending,
		})
	}

	return matches
}
