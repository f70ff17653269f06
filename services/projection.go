package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/zenkai-arena/tournament-server/brackets"
	"github.com/zenkai-arena/tournament-server/models"
	"github.com/zenkai-arena/tournament-server/standings"
)

type QualificationTier string

const (
	// TierGuaranteed marks a current group leader (gold highlight).
	TierGuaranteed QualificationTier = "gold"
	// TierWildcard marks a projected at-large qualifier (silver highlight).
	TierWildcard QualificationTier = "silver"
)

// BracketView is the read model of the elimination stage.
type BracketView struct {
	Matches     []models.Match `json:"matches"`
	ActiveRound int            `json:"active_round"`
	StageLabel  string         `json:"stage_label"`
	Complete    bool           `json:"complete"`
}

// Dashboard bundles every display projection in one read.
type Dashboard struct {
	Tournament    *models.Tournament           `json:"tournament"`
	Standings     []models.Player              `json:"standings"`
	Bracket       *BracketView                 `json:"bracket"`
	Qualification map[string]QualificationTier `json:"qualification"`
}

// Standings returns the current ranked player list.
func (s *TournamentService) Standings() ([]models.Player, error) {
	t, err := s.Current()
	if err != nil {
		return nil, err
	}
	return standings.Compute(t.Players, t.Matches), nil
}

// Bracket returns the elimination matches with the active stage resolved.
func (s *TournamentService) Bracket() (*BracketView, error) {
	t, err := s.Current()
	if err != nil {
		return nil, err
	}
	return bracketView(t), nil
}

// Qualification projects provisional top-cut membership during a group
// Swiss stage. Group leaders are guaranteed; the best non-leaders across
// groups fill the remaining slots as wildcards. Empty outside group Swiss,
// and suppressed until round 1 has fully completed so nobody gets
// highlighted off an empty record.
func (s *TournamentService) Qualification() (map[string]QualificationTier, error) {
	t, err := s.Current()
	if err != nil {
		return nil, err
	}
	return projectQualification(t), nil
}

// Dashboard assembles the full aggregate plus all projections. The three
// projections are independent recomputes over the same snapshot, so they
// fan out concurrently.
func (s *TournamentService) Dashboard(ctx context.Context) (*Dashboard, error) {
	t, err := s.Current()
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Tournament: t}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.Standings = standings.Compute(t.Players, t.Matches)
		return nil
	})
	g.Go(func() error {
		d.Bracket = bracketView(t)
		return nil
	})
	g.Go(func() error {
		d.Qualification = projectQualification(t)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func bracketView(t *models.Tournament) *BracketView {
	elims := t.EliminationMatches()
	if len(elims) == 0 {
		return &BracketView{}
	}

	view := &BracketView{
		Matches:     elims,
		ActiveRound: brackets.ActiveRound(elims),
		Complete:    brackets.AllComplete(elims),
	}
	if view.Complete {
		view.StageLabel = "Complete"
	} else {
		view.StageLabel = brackets.StageLabel(view.ActiveRound)
	}
	return view
}

func projectQualification(t *models.Tournament) map[string]QualificationTier {
	out := make(map[string]QualificationTier)
	if t.Phase != models.PhaseSwiss || len(t.ActiveGroups) == 0 {
		return out
	}
	if t.CurrentRound == 1 && !brackets.AllComplete(t.MatchesForRound(1)) {
		return out
	}

	ranked := standings.Compute(t.Players, t.Matches)

	leaders := 0
	var wildcardPool []models.Player
	for _, g := range t.ActiveGroups {
		var groupPlayers []models.Player
		for _, p := range ranked {
			if p.GroupID != nil && *p.GroupID == g {
				groupPlayers = append(groupPlayers, p)
			}
		}
		if len(groupPlayers) > 0 {
			out[groupPlayers[0].ID] = TierGuaranteed
			leaders++
		}
		if len(groupPlayers) > 1 {
			wildcardPool = append(wildcardPool, groupPlayers[1:]...)
		}
	}

	sort.SliceStable(wildcardPool, func(i, j int) bool {
		a, b := wildcardPool[i], wildcardPool[j]
		if a.TournamentPoints != b.TournamentPoints {
			return a.TournamentPoints > b.TournamentPoints
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Desafio > b.Desafio
	})

	for i := 0; i < t.TopCutSize-leaders && i < len(wildcardPool); i++ {
		out[wildcardPool[i].ID] = TierWildcard
	}
	return out
}
