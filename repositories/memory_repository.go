package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/zenkai-arena/tournament-server/models"
)

// inMemoryTournamentRepository backs the server when no DATABASE_URL is
// configured. Same contract as the Postgres store, nothing survives a
// restart.
type inMemoryTournamentRepository struct {
	mu        sync.RWMutex
	snapshots map[string]*models.Tournament
	updatedAt map[string]time.Time
}

func NewInMemoryTournamentRepository() TournamentRepository {
	return &inMemoryTournamentRepository{
		snapshots: make(map[string]*models.Tournament),
		updatedAt: make(map[string]time.Time),
	}
}

func (r *inMemoryTournamentRepository) Save(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[t.ID] = t.Clone()
	r.updatedAt[t.ID] = time.Now()
	return nil
}

func (r *inMemoryTournamentRepository) LoadCurrent(_ context.Context) (*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latestID string
	var latest time.Time
	for id, at := range r.updatedAt {
		if latestID == "" || at.After(latest) {
			latestID, latest = id, at
		}
	}
	if latestID == "" {
		return nil, ErrSnapshotNotFound
	}
	return r.snapshots[latestID].Clone(), nil
}

func (r *inMemoryTournamentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.snapshots[id]; !ok {
		return ErrSnapshotNotFound
	}
	delete(r.snapshots, id)
	delete(r.updatedAt, id)
	return nil
}
