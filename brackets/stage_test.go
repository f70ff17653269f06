package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zenkai-arena/tournament-server/models"
)

func stageFixture(completedRounds ...int) []models.Match {
	done := make(map[int]bool)
	for _, r := range completedRounds {
		done[r] = true
	}
	var matches []models.Match
	for _, spec := range []struct {
		id    string
		round int
	}{
		{"QF1", 1}, {"QF2", 1}, {"QF3", 1}, {"QF4", 1},
		{"SF1", 2}, {"SF2", 2},
		{"FINAL", 3}, {models.ThirdPlaceMatchID, 3},
	} {
		status := models.MatchStatusPending
		if done[spec.round] {
			status = models.MatchStatusCompleted
		}
		matches = append(matches, models.Match{
			ID:            spec.id,
			Round:         spec.round,
			IsElimination: true,
			Status:        status,
		})
	}
	return matches
}

func TestActiveRoundIsLowestIncomplete(t *testing.T) {
	assert.Equal(t, 1, ActiveRound(stageFixture()))
	assert.Equal(t, 2, ActiveRound(stageFixture(1)))
	assert.Equal(t, 3, ActiveRound(stageFixture(1, 2)))
}

func TestActiveRoundCompletedBracketReportsLastRound(t *testing.T) {
	assert.Equal(t, 3, ActiveRound(stageFixture(1, 2, 3)))
}

func TestActiveRoundEmptyBracket(t *testing.T) {
	assert.Equal(t, 0, ActiveRound(nil))
}

func TestAllComplete(t *testing.T) {
	assert.False(t, AllComplete(stageFixture(1, 2)))
	assert.True(t, AllComplete(stageFixture(1, 2, 3)))
	assert.True(t, AllComplete(nil))
}

func TestStageLabel(t *testing.T) {
	assert.Equal(t, "Quarterfinals", StageLabel(1))
	assert.Equal(t, "Semifinals", StageLabel(2))
	assert.Equal(t, "Finals", StageLabel(3))
	assert.Equal(t, "", StageLabel(9))
}
