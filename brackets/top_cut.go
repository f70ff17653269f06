package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/zenkai-arena/tournament-server/models"
)

// Fixed identifiers of the bracket matches. The shape is small enough (at
// most a top 8) that naming each slot beats generated ids.
const (
	FinalMatchID = "FINAL"

	semifinal1ID = "SF1"
	semifinal2ID = "SF2"

	quarterfinal1ID = "QF1"
	quarterfinal2ID = "QF2"
	quarterfinal3ID = "QF3"
	quarterfinal4ID = "QF4"
)

var (
	ErrInvalidTopCutSize  = errors.New("top cut size must be 2, 4 or 8")
	ErrNotEnoughQualified = errors.New("not enough players to fill the top cut")
)

// TopCutGenerator builds the single elimination bracket that follows the
// Swiss stage. It is invoked exactly once, after the final Swiss round
// completes; the produced matches are appended to the log and never
// regenerated.
type TopCutGenerator struct {
}

func NewTopCutGenerator() BracketGenerator {
	return &TopCutGenerator{}
}

func (g *TopCutGenerator) GetName() string {
	return "SwissTopCut"
}

func (g *TopCutGenerator) GenerateBracket(params GenerateBracketParams) ([]models.Match, error) {
	switch params.TopCutSize {
	case 2, 4, 8:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopCutSize, params.TopCutSize)
	}

	qualified := SelectQualifiers(params.Standings, params.Groups, params.TopCutSize)
	if len(qualified) < params.TopCutSize {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughQualified, params.TopCutSize, len(qualified))
	}

	seed := func(i int) *string {
		id := qualified[i].ID
		return &id
	}
	ref := func(id string) *string { return &id }

	elim := func(id string, round int, p1, p2, next, loserNext *string) models.Match {
		return models.Match{
			ID:               id,
			Round:            round,
			IsElimination:    true,
			Player1ID:        p1,
			Player2ID:        p2,
			Status:           models.MatchStatusPending,
			NextMatchID:      next,
			LoserNextMatchID: loserNext,
		}
	}

	var matches []models.Match

	switch params.TopCutSize {
	case 2:
		// A single final; nothing feeds a third place match, so none is kept.
		matches = append(matches, elim(FinalMatchID, 3, seed(0), seed(1), nil, nil))

	case 4:
		matches = append(matches,
			elim(semifinal1ID, 2, seed(0), seed(3), ref(FinalMatchID), ref(models.ThirdPlaceMatchID)),
			elim(semifinal2ID, 2, seed(1), seed(2), ref(FinalMatchID), ref(models.ThirdPlaceMatchID)),
			elim(FinalMatchID, 3, nil, nil, nil, nil),
			elim(models.ThirdPlaceMatchID, 3, nil, nil, nil, nil),
		)

	case 8:
		matches = append(matches,
			elim(quarterfinal1ID, 1, seed(0), seed(7), ref(semifinal1ID), nil),
			elim(quarterfinal2ID, 1, seed(3), seed(4), ref(semifinal1ID), nil),
			elim(quarterfinal3ID, 1, seed(1), seed(6), ref(semifinal2ID), nil),
			elim(quarterfinal4ID, 1, seed(2), seed(5), ref(semifinal2ID), nil),
			elim(semifinal1ID, 2, nil, nil, ref(FinalMatchID), ref(models.ThirdPlaceMatchID)),
			elim(semifinal2ID, 2, nil, nil, ref(FinalMatchID), ref(models.ThirdPlaceMatchID)),
			elim(FinalMatchID, 3, nil, nil, nil, nil),
			elim(models.ThirdPlaceMatchID, 3, nil, nil, nil, nil),
		)
	}

	if err := validateWiring(matches); err != nil {
		return nil, fmt.Errorf("bracket wiring invalid: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Round < matches[j].Round
	})
	return matches, nil
}

// SelectQualifiers picks the topCutSize players that advance to the bracket.
//
// Without groups it is simply the top of the standings. With groups, every
// group leader qualifies first (in group order), then runner-ups ranked
// globally by tournament points, wins, desafio; any slots still open go to
// the leftover runner-ups pooled with third-or-worse finishers, ranked by
// tournament points alone. The final set is re-sorted by tournament points
// so group identity does not decide bracket position.
func SelectQualifiers(standings []models.Player, groups []string, topCutSize int) []models.Player {
	if len(groups) == 0 {
		if topCutSize > len(standings) {
			topCutSize = len(standings)
		}
		return append([]models.Player(nil), standings[:topCutSize]...)
	}

	var winners, runnerUps, others []models.Player
	for _, g := range groups {
		var groupPlayers []models.Player
		for _, p := range standings {
			if p.GroupID != nil && *p.GroupID == g {
				groupPlayers = append(groupPlayers, p)
			}
		}
		if len(groupPlayers) > 0 {
			winners = append(winners, groupPlayers[0])
		}
		if len(groupPlayers) > 1 {
			runnerUps = append(runnerUps, groupPlayers[1])
		}
		if len(groupPlayers) > 2 {
			others = append(others, groupPlayers[2:]...)
		}
	}

	sort.SliceStable(runnerUps, func(i, j int) bool {
		a, b := runnerUps[i], runnerUps[j]
		if a.TournamentPoints != b.TournamentPoints {
			return a.TournamentPoints > b.TournamentPoints
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Desafio > b.Desafio
	})

	qualified := append([]models.Player(nil), winners...)

	slotsNeeded := topCutSize - len(qualified)
	if slotsNeeded > 0 {
		take := slotsNeeded
		if take > len(runnerUps) {
			take = len(runnerUps)
		}
		qualified = append(qualified, runnerUps[:take]...)
		runnerUps = runnerUps[take:]
	} else {
		runnerUps = nil
	}

	if remaining := topCutSize - len(qualified); remaining > 0 {
		// Fallback pool ranks by tournament points only. This is looser than
		// the runner-up ordering above and intentionally kept that way.
		pool := append(append([]models.Player(nil), runnerUps...), others...)
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].TournamentPoints > pool[j].TournamentPoints
		})
		if remaining > len(pool) {
			remaining = len(pool)
		}
		qualified = append(qualified, pool[:remaining]...)
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].TournamentPoints > qualified[j].TournamentPoints
	})

	if len(qualified) > topCutSize {
		qualified = qualified[:topCutSize]
	}
	return qualified
}

// validateWiring checks that every successor reference points at a match in
// the batch and that the winner/loser edges form no cycle.
func validateWiring(matches []models.Match) error {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for _, m := range matches {
		if err := g.AddVertex(m.ID); err != nil {
			return fmt.Errorf("match %s: %w", m.ID, err)
		}
	}
	for _, m := range matches {
		for _, next := range []*string{m.NextMatchID, m.LoserNextMatchID} {
			if next == nil {
				continue
			}
			if err := g.AddEdge(m.ID, *next); err != nil {
				return fmt.Errorf("edge %s -> %s: %w", m.ID, *next, err)
			}
		}
	}
	return nil
}
