package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenkai-arena/tournament-server/models"
)

func ranked(specs ...models.Player) []models.Player {
	return specs
}

func seedPlayer(id string, order, tp, wins, desafio int) models.Player {
	return models.Player{
		ID:                id,
		Name:              id,
		RegistrationOrder: order,
		TournamentPoints:  tp,
		Wins:              wins,
		Desafio:           desafio,
	}
}

func grouped(p models.Player, group string) models.Player {
	p.GroupID = &group
	return p
}

func matchByID(t *testing.T, matches []models.Match, id string) models.Match {
	t.Helper()
	for _, m := range matches {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("match %s not generated", id)
	return models.Match{}
}

func TestGenerateBracketRejectsInvalidSize(t *testing.T) {
	g := NewTopCutGenerator()
	for _, size := range []int{0, 1, 3, 6, 16} {
		_, err := g.GenerateBracket(GenerateBracketParams{
			Standings:  ranked(seedPlayer("a", 1, 10, 3, 0), seedPlayer("b", 2, 8, 2, 0)),
			TopCutSize: size,
		})
		assert.ErrorIs(t, err, ErrInvalidTopCutSize, "size %d", size)
	}
}

func TestGenerateBracketRejectsShortField(t *testing.T) {
	g := NewTopCutGenerator()
	_, err := g.GenerateBracket(GenerateBracketParams{
		Standings:  ranked(seedPlayer("a", 1, 10, 3, 0), seedPlayer("b", 2, 8, 2, 0)),
		TopCutSize: 4,
	})
	assert.ErrorIs(t, err, ErrNotEnoughQualified)
}

func TestGenerateBracketTopTwoIsSingleFinal(t *testing.T) {
	g := NewTopCutGenerator()
	matches, err := g.GenerateBracket(GenerateBracketParams{
		Standings: ranked(
			seedPlayer("a", 1, 12, 4, 0),
			seedPlayer("b", 2, 10, 3, 0),
			seedPlayer("c", 3, 6, 2, 0),
		),
		TopCutSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	final := matches[0]
	assert.Equal(t, FinalMatchID, final.ID)
	assert.True(t, final.IsElimination)
	assert.Equal(t, "a", *final.Player1ID)
	assert.Equal(t, "b", *final.Player2ID)
	assert.Nil(t, final.NextMatchID)
	assert.Nil(t, final.LoserNextMatchID)
}

func TestGenerateBracketTopFourShape(t *testing.T) {
	g := NewTopCutGenerator()
	matches, err := g.GenerateBracket(GenerateBracketParams{
		Standings: ranked(
			seedPlayer("s1", 1, 12, 4, 0),
			seedPlayer("s2", 2, 10, 3, 0),
			seedPlayer("s3", 3, 8, 3, 0),
			seedPlayer("s4", 4, 6, 2, 0),
		),
		TopCutSize: 4,
	})
	require.NoError(t, err)
	require.Len(t, matches, 4)

	sf1 := matchByID(t, matches, "SF1")
	assert.Equal(t, "s1", *sf1.Player1ID)
	assert.Equal(t, "s4", *sf1.Player2ID)
	assert.Equal(t, FinalMatchID, *sf1.NextMatchID)
	assert.Equal(t, models.ThirdPlaceMatchID, *sf1.LoserNextMatchID)

	sf2 := matchByID(t, matches, "SF2")
	assert.Equal(t, "s2", *sf2.Player1ID)
	assert.Equal(t, "s3", *sf2.Player2ID)

	final := matchByID(t, matches, FinalMatchID)
	assert.Nil(t, final.Player1ID)
	assert.Nil(t, final.Player2ID)

	third := matchByID(t, matches, models.ThirdPlaceMatchID)
	assert.Nil(t, third.NextMatchID)
}

func TestGenerateBracketTopEightSeedPattern(t *testing.T) {
	var field []models.Player
	for i, id := range []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"} {
		field = append(field, seedPlayer(id, i+1, 20-i, 5, 0))
	}

	g := NewTopCutGenerator()
	matches, err := g.GenerateBracket(GenerateBracketParams{
		Standings:  field,
		TopCutSize: 8,
	})
	require.NoError(t, err)
	require.Len(t, matches, 8)

	expect := map[string][2]string{
		"QF1": {"s1", "s8"},
		"QF2": {"s4", "s5"},
		"QF3": {"s2", "s7"},
		"QF4": {"s3", "s6"},
	}
	for id, pair := range expect {
		m := matchByID(t, matches, id)
		assert.Equal(t, pair[0], *m.Player1ID, "%s slot 1", id)
		assert.Equal(t, pair[1], *m.Player2ID, "%s slot 2", id)
	}

	assert.Equal(t, "SF1", *matchByID(t, matches, "QF1").NextMatchID)
	assert.Equal(t, "SF1", *matchByID(t, matches, "QF2").NextMatchID)
	assert.Equal(t, "SF2", *matchByID(t, matches, "QF3").NextMatchID)
	assert.Equal(t, "SF2", *matchByID(t, matches, "QF4").NextMatchID)
}

func TestSelectQualifiersWithoutGroupsTakesTop(t *testing.T) {
	field := ranked(
		seedPlayer("a", 1, 12, 4, 0),
		seedPlayer("b", 2, 10, 3, 0),
		seedPlayer("c", 3, 8, 3, 0),
		seedPlayer("d", 4, 6, 2, 0),
	)

	qualified := SelectQualifiers(field, nil, 2)
	require.Len(t, qualified, 2)
	assert.Equal(t, "a", qualified[0].ID)
	assert.Equal(t, "b", qualified[1].ID)
}

func TestSelectQualifiersGroupWinnersAlwaysIn(t *testing.T) {
	// Group B's winner has fewer points than group A's runner-up but still
	// takes a guaranteed slot.
	field := []models.Player{
		grouped(seedPlayer("a1", 1, 14, 4, 0), "A"),
		grouped(seedPlayer("a2", 2, 12, 3, 0), "A"),
		grouped(seedPlayer("b1", 3, 8, 2, 0), "B"),
		grouped(seedPlayer("a3", 4, 6, 1, 0), "A"),
		grouped(seedPlayer("b2", 5, 5, 1, 0), "B"),
		grouped(seedPlayer("b3", 6, 2, 0, 0), "B"),
	}

	qualified := SelectQualifiers(field, []string{"A", "B"}, 4)
	require.Len(t, qualified, 4)

	ids := make(map[string]bool, 4)
	for _, p := range qualified {
		ids[p.ID] = true
	}
	assert.True(t, ids["a1"])
	assert.True(t, ids["b1"])
	assert.True(t, ids["a2"])
	assert.True(t, ids["b2"])

	// Final seeding is by tournament points regardless of group.
	assert.Equal(t, "a1", qualified[0].ID)
	assert.Equal(t, "a2", qualified[1].ID)
	assert.Equal(t, "b1", qualified[2].ID)
	assert.Equal(t, "b2", qualified[3].ID)
}

func TestSelectQualifiersFallbackPoolRanksByPointsOnly(t *testing.T) {
	// Top 4 from a single group of five: winner, runner-up, then two from
	// the remainder pool ordered by tournament points alone.
	field := []models.Player{
		grouped(seedPlayer("p1", 1, 14, 4, 0), "A"),
		grouped(seedPlayer("p2", 2, 12, 3, 0), "A"),
		grouped(seedPlayer("p3", 3, 9, 3, 5), "A"),
		grouped(seedPlayer("p4", 4, 10, 2, 0), "A"),
		grouped(seedPlayer("p5", 5, 3, 0, 0), "A"),
	}

	qualified := SelectQualifiers(field, []string{"A"}, 4)
	require.Len(t, qualified, 4)
	assert.Equal(t, "p1", qualified[0].ID)
	assert.Equal(t, "p2", qualified[1].ID)
	// p4 outranks p3 in the fallback pool on points despite fewer wins.
	assert.Equal(t, "p4", qualified[2].ID)
	assert.Equal(t, "p3", qualified[3].ID)
}
