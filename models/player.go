package models

// HistoryEntry is a per-round outcome code in a player's Swiss history.
type HistoryEntry string

const (
	HistoryWin  HistoryEntry = "W"
	HistoryLoss HistoryEntry = "L"
	HistoryBye  HistoryEntry = "B"
)

// Player carries identity plus the statistics derived from the match log.
// Everything below RegistrationOrder/GroupID is recomputed from scratch by
// the standings engine whenever the match log changes; none of it is ever
// edited by hand.
type Player struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	RegistrationOrder int     `json:"registration_order"`
	GroupID           *string `json:"group_id,omitempty"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	// MatchPoints is the sum of the player's raw per-match scores.
	// TournamentPoints adds 2 per win and subtracts overtime penalties.
	MatchPoints      int `json:"match_points"`
	TournamentPoints int `json:"tournament_points"`

	// Desafio sums the tournament points of every opponent this player
	// lost to. Rewards losing only to strong opponents.
	Desafio int `json:"desafio"`

	Opponents      []string       `json:"opponents"`
	History        []HistoryEntry `json:"history"`
	HasReceivedBye bool           `json:"has_received_bye"`
}

// HasPlayed reports whether the player has already faced the given opponent.
func (p *Player) HasPlayed(opponentID string) bool {
	for _, id := range p.Opponents {
		if id == opponentID {
			return true
		}
	}
	return false
}

func (p *Player) clone() Player {
	cp := *p
	if p.GroupID != nil {
		g := *p.GroupID
		cp.GroupID = &g
	}
	cp.Opponents = append([]string(nil), p.Opponents...)
	cp.History = append([]HistoryEntry(nil), p.History...)
	return cp
}
