package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/zenkai-arena/tournament-server/brackets"
	"github.com/zenkai-arena/tournament-server/models"
	"github.com/zenkai-arena/tournament-server/repositories"
	"github.com/zenkai-arena/tournament-server/standings"
	"github.com/zenkai-arena/tournament-server/storage"
	"github.com/zenkai-arena/tournament-server/swiss"
)

const (
	minRosterSize = 4
	maxRosterSize = 30

	defaultTournamentName       = "Liga Zenkai"
	defaultRoundDurationSeconds = 45 * 60
)

var groupLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

var ErrPlayerNameRequired = errors.New("player name is required")

// StartConfig is the tournament configuration fixed at start.
type StartConfig struct {
	Name                 string `json:"name"`
	TotalSwissRounds     int    `json:"total_swiss_rounds"`
	TopCutSize           int    `json:"top_cut_size"`
	GroupCount           int    `json:"group_count"`
	RoundDurationSeconds int    `json:"round_duration_seconds"`
	IgnoreTimer          bool   `json:"ignore_timer"`
}

// TournamentService owns the single tournament aggregate and serializes
// every mutation behind one mutex. Each mutating operation works on a deep
// copy of the aggregate and swaps it in whole on success, so a rejected
// operation leaves the prior state untouched and concurrent readers never
// see a half-applied update.
type TournamentService struct {
	mu                    sync.Mutex
	roster                []models.Player
	nextRegistrationOrder int
	tournament            *models.Tournament

	repo      repositories.TournamentRepository
	hub       *brackets.Hub
	uploader  storage.FileUploader
	generator brackets.BracketGenerator
	clock     clockwork.Clock
	rng       *rand.Rand
	logger    *slog.Logger
}

func NewTournamentService(
	repo repositories.TournamentRepository,
	hub *brackets.Hub,
	uploader storage.FileUploader,
	clock clockwork.Clock,
	rng *rand.Rand,
	logger *slog.Logger,
) *TournamentService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentService{
		nextRegistrationOrder: 1,
		repo:                  repo,
		hub:                   hub,
		uploader:              uploader,
		generator:             brackets.NewTopCutGenerator(),
		clock:                 clock,
		rng:                   rng,
		logger:                logger,
	}
}

// Restore picks up the most recent snapshot after a restart. A missing
// snapshot is not an error.
func (s *TournamentService) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	t, err := s.repo.LoadCurrent(ctx)
	if errors.Is(err, repositories.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore tournament: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournament = t
	for _, p := range t.Players {
		if p.RegistrationOrder >= s.nextRegistrationOrder {
			s.nextRegistrationOrder = p.RegistrationOrder + 1
		}
	}
	s.logger.Info("tournament restored from snapshot",
		slog.String("tournament_id", t.ID),
		slog.String("phase", string(t.Phase)))
	return nil
}

// RegisterPlayer adds a player to the roster. Only allowed before a
// tournament starts; the roster is capped at 30.
func (s *TournamentService) RegisterPlayer(ctx context.Context, name string) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tournament != nil {
		return nil, ErrRegistrationClosed
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}
	if len(s.roster) >= maxRosterSize {
		return nil, ErrRosterFull
	}

	player := models.Player{
		ID:                uuid.NewString(),
		Name:              name,
		RegistrationOrder: s.nextRegistrationOrder,
	}
	s.nextRegistrationOrder++
	s.roster = append(s.roster, player)

	s.logger.Info("player registered",
		slog.String("player_id", player.ID),
		slog.Int("registration_order", player.RegistrationOrder))
	return &player, nil
}

func (s *TournamentService) RemovePlayer(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tournament != nil {
		return ErrRegistrationClosed
	}
	for i := range s.roster {
		if s.roster[i].ID == playerID {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			return nil
		}
	}
	return ErrPlayerNotFound
}

// Roster returns the registered players in registration order.
func (s *TournamentService) Roster() []models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Player(nil), s.roster...)
}

// Start validates the configuration, splits groups when requested and
// generates round 1.
func (s *TournamentService) Start(ctx context.Context, cfg StartConfig) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tournament != nil {
		return nil, ErrTournamentInProgress
	}
	n := len(s.roster)
	if n < minRosterSize {
		return nil, ErrNotEnoughPlayers
	}
	if cfg.TotalSwissRounds < 1 {
		return nil, ErrInvalidSwissRounds
	}
	switch cfg.TopCutSize {
	case 2, 4:
	case 8:
		if n < 12 {
			return nil, ErrTopEightNeedsTwelve
		}
	default:
		return nil, ErrInvalidTopCutSize
	}
	if cfg.RoundDurationSeconds <= 0 {
		cfg.RoundDurationSeconds = defaultRoundDurationSeconds
	}

	players := make([]models.Player, len(s.roster))
	for i, p := range s.roster {
		players[i] = p
	}

	var activeGroups []string
	if cfg.GroupCount > 0 {
		minG, maxG := GroupCountRange(n)
		if maxG == 0 || cfg.GroupCount < minG || cfg.GroupCount > maxG || cfg.GroupCount > len(groupLabels) {
			return nil, ErrInfeasibleGroupCount
		}
		activeGroups = append(activeGroups, groupLabels[:cfg.GroupCount]...)

		// Shuffle, then deal round-robin so group sizes differ by at most one.
		s.rng.Shuffle(len(players), func(i, j int) {
			players[i], players[j] = players[j], players[i]
		})
		for i := range players {
			label := activeGroups[i%cfg.GroupCount]
			players[i].GroupID = &label
		}
	}

	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = defaultTournamentName
	}

	t := &models.Tournament{
		ID:                   uuid.NewString(),
		Name:                 name,
		Phase:                models.PhaseSwiss,
		CurrentRound:         1,
		TotalSwissRounds:     cfg.TotalSwissRounds,
		TopCutSize:           cfg.TopCutSize,
		ActiveGroups:         activeGroups,
		RoundDurationSeconds: cfg.RoundDurationSeconds,
		IgnoreTimer:          cfg.IgnoreTimer,
		IgnoreTimerDefault:   cfg.IgnoreTimer,
		Players:              players,
		CreatedAt:            s.clock.Now(),
	}

	if len(activeGroups) > 0 {
		for _, g := range activeGroups {
			t.Matches = append(t.Matches, swiss.Pair(t.GroupPlayers(g), 1, s.rng)...)
		}
	} else {
		t.Matches = swiss.Pair(t.Players, 1, s.rng)
	}

	// Byes are born completed, so round 1 standings must reflect them.
	t.Players = standings.Compute(t.Players, t.Matches)

	s.commit(ctx, t)
	s.logger.Info("tournament started",
		slog.String("tournament_id", t.ID),
		slog.Int("players", n),
		slog.Int("swiss_rounds", t.TotalSwissRounds),
		slog.Int("top_cut", t.TopCutSize),
		slog.Int("groups", len(activeGroups)))
	return t.Clone(), nil
}

// Current returns a copy of the active tournament.
func (s *TournamentService) Current() (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tournament == nil {
		return nil, ErrNoActiveTournament
	}
	return s.tournament.Clone(), nil
}

// AdvanceRound moves the tournament forward: next Swiss round, Swiss into
// the elimination bracket on the final round, or the next bracket stage.
// It refuses to advance while the active round has open matches, reporting
// how many are pending, and mutates nothing in that case.
func (s *TournamentService) AdvanceRound(ctx context.Context) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tournament
	if t == nil {
		return nil, ErrNoActiveTournament
	}

	switch t.Phase {
	case models.PhaseSwiss:
		if pending := countPending(t.MatchesForRound(t.CurrentRound)); pending > 0 {
			return nil, &RoundIncompleteError{Pending: pending}
		}

		work := t.Clone()
		work.Players = standings.Compute(work.Players, work.Matches)

		if work.CurrentRound >= work.TotalSwissRounds {
			bracketMatches, err := s.generator.GenerateBracket(brackets.GenerateBracketParams{
				Standings:  work.Players,
				Groups:     work.ActiveGroups,
				TopCutSize: work.TopCutSize,
			})
			if err != nil {
				return nil, err
			}
			work.Matches = append(work.Matches, bracketMatches...)
			work.Phase = models.PhaseElimination
			s.logger.Info("elimination bracket generated",
				slog.String("tournament_id", work.ID),
				slog.Int("top_cut", work.TopCutSize))
		} else {
			next := work.CurrentRound + 1
			if len(work.ActiveGroups) > 0 {
				for _, g := range work.ActiveGroups {
					work.Matches = append(work.Matches, swiss.Pair(work.GroupPlayers(g), next, s.rng)...)
				}
			} else {
				work.Matches = append(work.Matches, swiss.Pair(work.Players, next, s.rng)...)
			}
			work.CurrentRound = next
			// A new round can add completed byes; refresh standings.
			work.Players = standings.Compute(work.Players, work.Matches)
			s.logger.Info("swiss round started",
				slog.String("tournament_id", work.ID),
				slog.Int("round", next))
		}

		work.RoundStartTime = nil
		work.IgnoreTimer = work.IgnoreTimerDefault
		s.commit(ctx, work)
		return work.Clone(), nil

	case models.PhaseElimination:
		elims := t.EliminationMatches()
		active := brackets.ActiveRound(elims)
		if pending := countPendingInRound(elims, active); pending > 0 {
			return nil, &RoundIncompleteError{Pending: pending}
		}

		work := t.Clone()
		work.RoundStartTime = nil
		work.IgnoreTimer = work.IgnoreTimerDefault
		finishedNow := brackets.AllComplete(elims) && work.Phase != models.PhaseFinished
		if finishedNow {
			work.Phase = models.PhaseFinished
		}
		s.commit(ctx, work)
		if finishedNow {
			s.archiveFinalResults(ctx, work)
		}
		return work.Clone(), nil

	default:
		return nil, ErrTournamentFinished
	}
}

// StartRoundTimer stamps the round start; overtime is judged against it.
func (s *TournamentService) StartRoundTimer(ctx context.Context) (*models.Tournament, error) {
	return s.updateTimer(ctx, func(t *models.Tournament) {
		now := s.clock.Now()
		t.RoundStartTime = &now
		t.IgnoreTimer = false
	})
}

// ResetRoundTimer clears the stamp and restores the configured timer mode.
func (s *TournamentService) ResetRoundTimer(ctx context.Context) (*models.Tournament, error) {
	return s.updateTimer(ctx, func(t *models.Tournament) {
		t.RoundStartTime = nil
		t.IgnoreTimer = t.IgnoreTimerDefault
	})
}

// EnableFreeTime switches the round to untimed play: no overtime penalty is
// applied and results may be recorded without a running timer.
func (s *TournamentService) EnableFreeTime(ctx context.Context) (*models.Tournament, error) {
	return s.updateTimer(ctx, func(t *models.Tournament) {
		t.RoundStartTime = nil
		t.IgnoreTimer = true
	})
}

func (s *TournamentService) updateTimer(ctx context.Context, apply func(*models.Tournament)) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tournament == nil {
		return nil, ErrNoActiveTournament
	}
	work := s.tournament.Clone()
	apply(work)
	s.commit(ctx, work)
	return work.Clone(), nil
}

// End discards the active tournament. It is always available and has no
// gating; the roster survives for the next one.
func (s *TournamentService) End(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tournament
	if t == nil {
		return nil
	}
	s.tournament = nil

	if s.repo != nil {
		if err := s.repo.Delete(ctx, t.ID); err != nil && !errors.Is(err, repositories.ErrSnapshotNotFound) {
			s.logger.Error("failed to delete tournament snapshot",
				slog.String("tournament_id", t.ID), slog.Any("error", err))
		}
	}
	if s.hub != nil {
		s.hub.BroadcastToRoom(t.ID, brackets.WebSocketMessage{
			Type:   brackets.EventTournamentEnded,
			RoomID: t.ID,
		})
	}
	s.logger.Info("tournament ended", slog.String("tournament_id", t.ID))
	return nil
}

// commit swaps in the new aggregate, persists it and notifies spectators.
// Persistence failures are logged, not surfaced: the in-memory aggregate is
// the source of truth and the snapshot is best effort.
func (s *TournamentService) commit(ctx context.Context, t *models.Tournament) {
	s.tournament = t

	if s.repo != nil {
		if err := s.repo.Save(ctx, t); err != nil {
			s.logger.Error("failed to save tournament snapshot",
				slog.String("tournament_id", t.ID), slog.Any("error", err))
		}
	}
	if s.hub != nil {
		s.hub.BroadcastToRoom(t.ID, brackets.WebSocketMessage{
			Type:    brackets.EventTournamentUpdated,
			Payload: t,
			RoomID:  t.ID,
		})
	}
}

// archiveFinalResults uploads the finished tournament's standings to object
// storage. Best effort: failures are logged and do not fail the mutation
// that completed the tournament.
func (s *TournamentService) archiveFinalResults(ctx context.Context, t *models.Tournament) {
	if s.uploader == nil {
		return
	}

	payload := struct {
		Tournament *models.Tournament `json:"tournament"`
		Standings  []models.Player    `json:"standings"`
	}{
		Tournament: t,
		Standings:  standings.Compute(t.Players, t.Matches),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal final results",
			slog.String("tournament_id", t.ID), slog.Any("error", err))
		return
	}

	key := fmt.Sprintf("archives/%s.json", t.ID)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(data))
	if err != nil {
		s.logger.Error("failed to archive final results",
			slog.String("tournament_id", t.ID), slog.Any("error", err))
		return
	}
	s.logger.Info("final results archived",
		slog.String("tournament_id", t.ID),
		slog.String("location", result.Location))
}

func countPending(matches []models.Match) int {
	pending := 0
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted {
			pending++
		}
	}
	return pending
}

func countPendingInRound(matches []models.Match, round int) int {
	pending := 0
	for _, m := range matches {
		if m.Round == round && m.Status != models.MatchStatusCompleted {
			pending++
		}
	}
	return pending
}
