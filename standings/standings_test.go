package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenkai-arena/tournament-server/models"
)

func player(id string, order int) models.Player {
	return models.Player{ID: id, Name: id, RegistrationOrder: order}
}

func completedMatch(id string, round int, p1, p2, winner string, s1, s2 int) models.Match {
	return models.Match{
		ID:        id,
		Round:     round,
		Player1ID: &p1,
		Player2ID: &p2,
		WinnerID:  &winner,
		Score1:    s1,
		Score2:    s2,
		Status:    models.MatchStatusCompleted,
	}
}

func byeMatch(id string, round int, p string) models.Match {
	return models.Match{
		ID:        id,
		Round:     round,
		Player1ID: &p,
		WinnerID:  &p,
		Status:    models.MatchStatusCompleted,
		IsBye:     true,
	}
}

func findPlayer(t *testing.T, players []models.Player, id string) models.Player {
	t.Helper()
	for _, p := range players {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("player %s not in result", id)
	return models.Player{}
}

func TestComputeWinAwardsTwoBonusPoints(t *testing.T) {
	players := []models.Player{player("a", 1), player("b", 2)}
	matches := []models.Match{completedMatch("m1", 1, "a", "b", "a", 3, 1)}

	result := Compute(players, matches)

	a := findPlayer(t, result, "a")
	b := findPlayer(t, result, "b")

	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 3, a.MatchPoints)
	assert.Equal(t, 5, a.TournamentPoints)
	assert.Equal(t, []models.HistoryEntry{models.HistoryWin}, a.History)

	assert.Equal(t, 1, b.Losses)
	assert.Equal(t, 1, b.MatchPoints)
	assert.Equal(t, 1, b.TournamentPoints)
	assert.Equal(t, []models.HistoryEntry{models.HistoryLoss}, b.History)
}

func TestComputeOvertimePenaltyHitsBothParticipants(t *testing.T) {
	players := []models.Player{player("a", 1), player("b", 2)}
	m := completedMatch("m1", 1, "a", "b", "a", 3, 1)
	m.FinishedOvertime = true

	result := Compute(players, []models.Match{m})

	assert.Equal(t, 4, findPlayer(t, result, "a").TournamentPoints)
	assert.Equal(t, 0, findPlayer(t, result, "b").TournamentPoints)
}

func TestComputeByeCountsAsWinWithByeHistory(t *testing.T) {
	players := []models.Player{player("a", 1)}
	result := Compute(players, []models.Match{byeMatch("bye1", 1, "a")})

	a := findPlayer(t, result, "a")
	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 2, a.TournamentPoints)
	assert.True(t, a.HasReceivedBye)
	assert.Equal(t, []models.HistoryEntry{models.HistoryBye}, a.History)
	assert.Empty(t, a.Opponents)
}

func TestComputeIgnoresPendingAndEliminationMatches(t *testing.T) {
	players := []models.Player{player("a", 1), player("b", 2)}

	pending := models.Match{ID: "p", Round: 2, Status: models.MatchStatusPending}
	p1, p2 := "a", "b"
	pending.Player1ID, pending.Player2ID = &p1, &p2

	elim := completedMatch("e", 3, "a", "b", "b", 0, 2)
	elim.IsElimination = true

	result := Compute(players, []models.Match{pending, elim})

	for _, p := range result {
		assert.Zero(t, p.Wins)
		assert.Zero(t, p.Losses)
		assert.Zero(t, p.TournamentPoints)
	}
}

func TestComputeDesafioSumsPointsOfConquerors(t *testing.T) {
	// c beats a and b, ending with 2 wins; a also beats b.
	players := []models.Player{player("a", 1), player("b", 2), player("c", 3)}
	matches := []models.Match{
		completedMatch("m1", 1, "c", "a", "c", 2, 0),
		completedMatch("m2", 1, "a", "b", "a", 2, 0),
		completedMatch("m3", 2, "c", "b", "c", 2, 0),
	}

	result := Compute(players, matches)

	c := findPlayer(t, result, "c")
	a := findPlayer(t, result, "a")
	b := findPlayer(t, result, "b")

	require.Equal(t, 8, c.TournamentPoints)
	require.Equal(t, 4, a.TournamentPoints)

	assert.Equal(t, 0, c.Desafio)
	assert.Equal(t, 8, a.Desafio)
	// b lost to both c and a.
	assert.Equal(t, 12, b.Desafio)
}

func TestLessHeadToHeadBreaksEqualPoints(t *testing.T) {
	players := []models.Player{player("a", 1), player("b", 2), player("c", 3), player("d", 4)}
	matches := []models.Match{
		// a and b both go 1-1 with identical scores; b beat a directly.
		completedMatch("m1", 1, "b", "a", "b", 2, 0),
		completedMatch("m2", 2, "a", "c", "a", 2, 0),
		completedMatch("m3", 2, "b", "d", "d", 0, 2),
	}

	result := Compute(players, matches)

	a := findPlayer(t, result, "a")
	b := findPlayer(t, result, "b")
	require.Equal(t, a.Wins, b.Wins)
	require.Equal(t, a.TournamentPoints, b.TournamentPoints)

	assert.True(t, Less(&b, &a, matches))
	assert.False(t, Less(&a, &b, matches))
}

func TestLessFallsBackToRegistrationOrder(t *testing.T) {
	a := player("a", 5)
	b := player("b", 2)

	// No matches at all: every prior criterion ties.
	assert.True(t, Less(&b, &a, nil))
	assert.False(t, Less(&a, &b, nil))
}

func TestComputeOrderIsStrictAndTotal(t *testing.T) {
	players := []models.Player{player("a", 1), player("b", 2), player("c", 3), player("d", 4)}

	result := Compute(players, nil)

	require.Len(t, result, 4)
	for i := 0; i < len(result)-1; i++ {
		assert.True(t, Less(&result[i], &result[i+1], nil),
			"position %d must strictly precede position %d", i, i+1)
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	players := []models.Player{player("a", 1), player("b", 2)}
	matches := []models.Match{completedMatch("m1", 1, "a", "b", "a", 2, 0)}

	_ = Compute(players, matches)

	assert.Zero(t, players[0].Wins)
	assert.Zero(t, players[1].Losses)
	assert.Nil(t, players[0].History)
}
