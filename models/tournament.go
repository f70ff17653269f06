package models

import "time"

type TournamentPhase string

const (
	PhaseRegistration TournamentPhase = "registration"
	PhaseSwiss        TournamentPhase = "swiss"
	PhaseElimination  TournamentPhase = "elimination"
	PhaseFinished     TournamentPhase = "finished"
)

// Tournament is the aggregate root. Matches form an append-only log: each
// round (and the elimination bracket, once) appends a batch, and existing
// entries are only ever replaced in place by id.
type Tournament struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Phase        TournamentPhase `json:"phase"`
	CurrentRound int             `json:"current_round"`

	TotalSwissRounds int `json:"total_swiss_rounds"`
	TopCutSize       int `json:"top_cut_size"`

	// ActiveGroups lists the group labels in order, nil when the group
	// stage is disabled.
	ActiveGroups []string `json:"active_groups,omitempty"`

	RoundStartTime       *time.Time `json:"round_start_time,omitempty"`
	RoundDurationSeconds int        `json:"round_duration_seconds"`
	IgnoreTimer          bool       `json:"ignore_timer"`
	// IgnoreTimerDefault is the timer mode chosen at start; IgnoreTimer
	// snaps back to it whenever a new round begins.
	IgnoreTimerDefault bool `json:"ignore_timer_default"`

	// Players are kept in standings order after every recompute.
	Players []Player `json:"players"`
	Matches []Match  `json:"matches"`

	CreatedAt time.Time `json:"created_at"`
}

// PlayerByID returns the player with the given id, or nil.
func (t *Tournament) PlayerByID(id string) *Player {
	for i := range t.Players {
		if t.Players[i].ID == id {
			return &t.Players[i]
		}
	}
	return nil
}

// MatchByID returns the index of the match with the given id, or -1.
func (t *Tournament) MatchIndexByID(id string) int {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return i
		}
	}
	return -1
}

// MatchesForRound returns the non-elimination matches of a Swiss round.
func (t *Tournament) MatchesForRound(round int) []Match {
	var out []Match
	for _, m := range t.Matches {
		if !m.IsElimination && m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

// EliminationMatches returns the bracket portion of the match log.
func (t *Tournament) EliminationMatches() []Match {
	var out []Match
	for _, m := range t.Matches {
		if m.IsElimination {
			out = append(out, m)
		}
	}
	return out
}

// GroupPlayers returns the players of one group, preserving current order.
func (t *Tournament) GroupPlayers(groupID string) []Player {
	var out []Player
	for _, p := range t.Players {
		if p.GroupID != nil && *p.GroupID == groupID {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of the aggregate. Mutating operations work on a
// copy and swap it in whole on success, so readers never observe a
// half-applied update.
func (t *Tournament) Clone() *Tournament {
	cp := *t
	if t.RoundStartTime != nil {
		ts := *t.RoundStartTime
		cp.RoundStartTime = &ts
	}
	cp.ActiveGroups = append([]string(nil), t.ActiveGroups...)
	cp.Players = make([]Player, len(t.Players))
	for i := range t.Players {
		cp.Players[i] = t.Players[i].clone()
	}
	cp.Matches = make([]Match, len(t.Matches))
	for i := range t.Matches {
		cp.Matches[i] = t.Matches[i].clone()
	}
	return &cp
}
