package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zenkai-arena/tournament-server/models"
)

var ErrSnapshotNotFound = errors.New("tournament snapshot not found")

// TournamentRepository persists whole-aggregate snapshots. The engine always
// replaces full state, so the store only needs save / load-latest / delete.
type TournamentRepository interface {
	Save(ctx context.Context, t *models.Tournament) error
	LoadCurrent(ctx context.Context) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS tournament_snapshots (
			id         TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure tournament_snapshots schema: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) Save(ctx context.Context, t *models.Tournament) error {
	state, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament %s: %w", t.ID, err)
	}

	query := `
		INSERT INTO tournament_snapshots (id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, t.ID, state); err != nil {
		return fmt.Errorf("failed to save tournament snapshot %s: %w", t.ID, err)
	}
	return nil
}

func (r *postgresTournamentRepository) LoadCurrent(ctx context.Context) (*models.Tournament, error) {
	query := `
		SELECT state FROM tournament_snapshots
		ORDER BY updated_at DESC
		LIMIT 1`

	var state []byte
	err := r.db.QueryRowContext(ctx, query).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current tournament snapshot: %w", err)
	}

	var t models.Tournament
	if err := json.Unmarshal(state, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournament snapshot: %w", err)
	}
	return &t, nil
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tournament_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament snapshot %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}
