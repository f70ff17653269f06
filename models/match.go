package models

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// ThirdPlaceMatchID is the fixed identifier of the third place match that
// every elimination bracket constructs.
const ThirdPlaceMatchID = "THIRD_PLACE_MATCH"

// Match is a single pairing, Swiss or elimination. Player slots are nil only
// in elimination matches whose upstream matches have not completed yet.
// NextMatchID and LoserNextMatchID hold explicit successor ids rather than
// pointers so the bracket stays a flat, id-addressed graph.
type Match struct {
	ID            string `json:"id"`
	Round         int    `json:"round"`
	IsElimination bool   `json:"is_elimination"`

	Player1ID *string `json:"player1_id"`
	Player2ID *string `json:"player2_id"`
	WinnerID  *string `json:"winner_id,omitempty"`

	Score1 int `json:"score1"`
	Score2 int `json:"score2"`

	Status MatchStatus `json:"status"`

	NextMatchID      *string `json:"next_match_id,omitempty"`
	LoserNextMatchID *string `json:"loser_next_match_id,omitempty"`

	IsBye bool `json:"is_bye"`

	// FinishedOvertime marks a match recorded after the round's time budget
	// expired. Always false for byes and elimination matches.
	FinishedOvertime bool `json:"finished_overtime"`
}

// HasPlayer reports whether the given player occupies either slot.
func (m *Match) HasPlayer(playerID string) bool {
	return (m.Player1ID != nil && *m.Player1ID == playerID) ||
		(m.Player2ID != nil && *m.Player2ID == playerID)
}

// LoserID returns the participant that is not the winner, or nil while the
// match is undecided or has only one participant.
func (m *Match) LoserID() *string {
	if m.WinnerID == nil {
		return nil
	}
	if m.Player1ID != nil && *m.Player1ID == *m.WinnerID {
		return m.Player2ID
	}
	if m.Player2ID != nil && *m.Player2ID == *m.WinnerID {
		return m.Player1ID
	}
	return nil
}

func (m *Match) clone() Match {
	cp := *m
	cp.Player1ID = cloneStringPtr(m.Player1ID)
	cp.Player2ID = cloneStringPtr(m.Player2ID)
	cp.WinnerID = cloneStringPtr(m.WinnerID)
	cp.NextMatchID = cloneStringPtr(m.NextMatchID)
	cp.LoserNextMatchID = cloneStringPtr(m.LoserNextMatchID)
	return cp
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
