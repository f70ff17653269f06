package services

import (
	"errors"
	"fmt"
)

// Shared error values surfaced to the HTTP layer. Every rejected operation
// leaves the prior tournament state fully intact.
var (
	// Not found
	ErrNoActiveTournament = errors.New("no active tournament")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Validation / business rules
	ErrRegistrationClosed   = errors.New("registration is closed")
	ErrRosterFull           = errors.New("roster is full (30 players max)")
	ErrNotEnoughPlayers     = errors.New("at least 4 players are required")
	ErrInvalidSwissRounds   = errors.New("total swiss rounds must be at least 1")
	ErrInvalidTopCutSize    = errors.New("top cut size must be 2, 4 or 8")
	ErrTopEightNeedsTwelve  = errors.New("top 8 requires at least 12 players")
	ErrInfeasibleGroupCount = errors.New("group count is not feasible for this roster (3 to 5 players per group)")
	ErrScoreTie             = errors.New("match score cannot be a tie")
	ErrNegativeScore        = errors.New("match scores cannot be negative")
	ErrMatchSlotsEmpty      = errors.New("match participants are not decided yet")
	ErrTournamentInProgress = errors.New("a tournament is already in progress")
	ErrTournamentFinished   = errors.New("tournament is already finished")
)

// RoundIncompleteError rejects a round or stage advance while matches of the
// active round are still open. It carries the number of offending matches.
type RoundIncompleteError struct {
	Pending int
}

func (e *RoundIncompleteError) Error() string {
	return fmt.Sprintf("%d matches in the current round are still pending", e.Pending)
}
