package swiss

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenkai-arena/tournament-server/models"
)

func pool(ids ...string) []models.Player {
	players := make([]models.Player, len(ids))
	for i, id := range ids {
		players[i] = models.Player{ID: id, Name: id, RegistrationOrder: i + 1}
	}
	return players
}

func participants(matches []models.Match) map[string]int {
	seen := make(map[string]int)
	for _, m := range matches {
		if m.Player1ID != nil {
			seen[*m.Player1ID]++
		}
		if m.Player2ID != nil {
			seen[*m.Player2ID]++
		}
	}
	return seen
}

func TestPairEvenPoolEveryoneExactlyOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	matches := Pair(pool("a", "b", "c", "d", "e", "f"), 1, rng)

	require.Len(t, matches, 3)
	seen := participants(matches)
	require.Len(t, seen, 6)
	for id, count := range seen {
		assert.Equal(t, 1, count, "player %s paired %d times", id, count)
	}
	for _, m := range matches {
		assert.Equal(t, models.MatchStatusPending, m.Status)
		assert.False(t, m.IsBye)
		assert.Equal(t, 1, m.Round)
	}
}

func TestPairOddPoolEmitsSingleCompletedBye(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	matches := Pair(pool("a", "b", "c", "d", "e"), 1, rng)

	require.Len(t, matches, 3)

	var byes []models.Match
	for _, m := range matches {
		if m.IsBye {
			byes = append(byes, m)
		}
	}
	require.Len(t, byes, 1)

	bye := byes[0]
	assert.Equal(t, models.MatchStatusCompleted, bye.Status)
	require.NotNil(t, bye.Player1ID)
	assert.Nil(t, bye.Player2ID)
	require.NotNil(t, bye.WinnerID)
	assert.Equal(t, *bye.Player1ID, *bye.WinnerID)
	assert.Zero(t, bye.Score1)
	assert.Zero(t, bye.Score2)
}

func TestPairLaterRoundByeGoesToLowestWithoutOne(t *testing.T) {
	// Pool arrives in standings order; c at the bottom already had a bye,
	// so b is the lowest ranked player still owed one.
	players := pool("a", "b", "c")
	players[2].HasReceivedBye = true

	rng := rand.New(rand.NewSource(1))
	matches := Pair(players, 2, rng)

	require.Len(t, matches, 2)
	require.True(t, matches[0].IsBye)
	assert.Equal(t, "b", *matches[0].Player1ID)
}

func TestPairLaterRoundByeFallsBackToBottom(t *testing.T) {
	players := pool("a", "b", "c")
	for i := range players {
		players[i].HasReceivedBye = true
	}

	rng := rand.New(rand.NewSource(1))
	matches := Pair(players, 3, rng)

	require.Len(t, matches, 2)
	require.True(t, matches[0].IsBye)
	assert.Equal(t, "c", *matches[0].Player1ID)
}

func TestPairAvoidsRematches(t *testing.T) {
	// Standings order a, b, c, d where a already played b and c already
	// played d. Top-down pairing must cross them: a-c and b-d.
	players := pool("a", "b", "c", "d")
	players[0].Opponents = []string{"b"}
	players[1].Opponents = []string{"a"}
	players[2].Opponents = []string{"d"}
	players[3].Opponents = []string{"c"}

	rng := rand.New(rand.NewSource(1))
	matches := Pair(players, 2, rng)

	require.Len(t, matches, 2)
	assert.Equal(t, "a", *matches[0].Player1ID)
	assert.Equal(t, "c", *matches[0].Player2ID)
	assert.Equal(t, "b", *matches[1].Player1ID)
	assert.Equal(t, "d", *matches[1].Player2ID)
}

func TestPairAllowsRematchWhenUnavoidable(t *testing.T) {
	players := pool("a", "b")
	players[0].Opponents = []string{"b"}
	players[1].Opponents = []string{"a"}

	rng := rand.New(rand.NewSource(1))
	matches := Pair(players, 3, rng)

	require.Len(t, matches, 1)
	assert.Equal(t, "a", *matches[0].Player1ID)
	assert.Equal(t, "b", *matches[0].Player2ID)
}

func TestPairRoundOneShuffleIsSeedDeterministic(t *testing.T) {
	first := Pair(pool("a", "b", "c", "d", "e", "f"), 1, rand.New(rand.NewSource(42)))
	second := Pair(pool("a", "b", "c", "d", "e", "f"), 1, rand.New(rand.NewSource(42)))

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, *first[i].Player1ID, *second[i].Player1ID)
		assert.Equal(t, *first[i].Player2ID, *second[i].Player2ID)
	}
}

func TestPairDoesNotMutateInputOrder(t *testing.T) {
	players := pool("a", "b", "c", "d")
	_ = Pair(players, 1, rand.New(rand.NewSource(3)))

	assert.Equal(t, "a", players[0].ID)
	assert.Equal(t, "b", players[1].ID)
	assert.Equal(t, "c", players[2].ID)
	assert.Equal(t, "d", players[3].ID)
}
