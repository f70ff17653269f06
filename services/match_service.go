package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/zenkai-arena/tournament-server/brackets"
	"github.com/zenkai-arena/tournament-server/models"
	"github.com/zenkai-arena/tournament-server/standings"
)

// SubmitMatchResult records the final scores of a match, classifies
// overtime, propagates elimination outcomes into downstream bracket slots
// and recomputes the standings. Tied scores are rejected before anything
// mutates. Submitting an id that already holds a result replaces it.
func (s *TournamentService) SubmitMatchResult(ctx context.Context, matchID string, score1, score2 int) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tournament
	if t == nil {
		return nil, ErrNoActiveTournament
	}
	if score1 < 0 || score2 < 0 {
		return nil, ErrNegativeScore
	}
	if score1 == score2 {
		return nil, ErrScoreTie
	}
	idx := t.MatchIndexByID(matchID)
	if idx < 0 {
		return nil, ErrMatchNotFound
	}
	if m := &t.Matches[idx]; m.IsElimination && (m.Player1ID == nil || m.Player2ID == nil) {
		return nil, ErrMatchSlotsEmpty
	}

	work := t.Clone()
	m := &work.Matches[idx]

	m.Score1 = score1
	m.Score2 = score2

	var winner string
	switch {
	case m.Player2ID == nil:
		// Bye: the lone participant stays the winner whatever the scores.
		winner = *m.Player1ID
	case score1 > score2:
		winner = *m.Player1ID
	default:
		winner = *m.Player2ID
	}
	m.WinnerID = &winner
	m.Status = models.MatchStatusCompleted
	m.FinishedOvertime = s.isOvertime(work, m)

	if m.IsElimination {
		brackets.PropagateResult(work.Matches, *m)
	}

	work.Players = standings.Compute(work.Players, work.Matches)

	finishedNow := false
	if work.Phase == models.PhaseElimination {
		if brackets.AllComplete(work.EliminationMatches()) {
			work.Phase = models.PhaseFinished
			work.RoundStartTime = nil
			finishedNow = true
		}
	}

	s.commit(ctx, work)
	if finishedNow {
		s.logger.Info("tournament finished", slog.String("tournament_id", work.ID))
		s.archiveFinalResults(ctx, work)
	}

	s.logger.Info("match result recorded",
		slog.String("tournament_id", work.ID),
		slog.String("match_id", matchID),
		slog.Int("score1", score1),
		slog.Int("score2", score2),
		slog.Bool("overtime", m.FinishedOvertime))
	return work.Clone(), nil
}

// isOvertime classifies a submission against the round clock. Byes and
// elimination matches never go to overtime, nor does anything while the
// timer is ignored or not running. The check happens exactly once, at
// submission time; there is no background expiry.
func (s *TournamentService) isOvertime(t *models.Tournament, m *models.Match) bool {
	if t.IgnoreTimer || m.IsBye || m.IsElimination {
		return false
	}
	if t.RoundStartTime == nil {
		return false
	}
	budget := time.Duration(t.RoundDurationSeconds) * time.Second
	return s.clock.Now().Sub(*t.RoundStartTime) > budget
}
