// internal/history/store.go

// Package history persists report snapshots so an advisor can revisit recent
// comparisons. Retention is bounded: only the newest snapshots are kept.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "insurance-portal/internal/common/errors"
	"insurance-portal/internal/common/logger"
	"insurance-portal/internal/models"
)

// Snapshot is one saved comparison: the family, the shared settings and the
// plans the advisor selected per member.
type Snapshot struct {
	ID        string                        `json:"id"`
	CreatedAt time.Time                     `json:"createdAt"`
	Members   []models.FamilyMember         `json:"members"`
	Settings  models.SharedSettings         `json:"settings"`
	Selected  map[int][]models.ResolvedPlan `json:"selected"`
}

// Store keeps snapshots in a single-table Postgres schema with the snapshot
// body as a JSON document.
type Store struct {
	db       *sql.DB
	log      logger.Logger
	retained int
}

func NewStore(db *sql.DB, retained int, log logger.Logger) *Store {
	if retained <= 0 {
		retained = 10
	}
	return &Store{
		db:       db,
		log:      log.WithFields(map[string]interface{}{"component": "history"}),
		retained: retained,
	}
}

// EnsureSchema creates the backing table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS report_history (
			id         UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			snapshot   JSONB NOT NULL
		)`)
	if err != nil {
		return apperrors.NewHistoryFailedError(err)
	}
	return nil
}

// Save inserts a snapshot and trims the table to the retention limit. A
// missing ID/CreatedAt is filled in; the stored snapshot is returned.
func (s *Store) Save(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, apperrors.NewHistoryFailedError(err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO report_history (id, created_at, snapshot) VALUES ($1, $2, $3)`,
		snap.ID, snap.CreatedAt, body,
	)
	if err != nil {
		return Snapshot{}, apperrors.NewHistoryFailedError(err)
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM report_history
		WHERE id NOT IN (
			SELECT id FROM report_history ORDER BY created_at DESC LIMIT $1
		)`, s.retained)
	if err != nil {
		// Retention is best-effort; the snapshot itself is saved.
		s.log.Warn("history trim failed", map[string]interface{}{"error": err.Error()})
	}

	return snap, nil
}

// List returns retained snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot FROM report_history
		ORDER BY created_at DESC LIMIT $1`, s.retained)
	if err != nil {
		return nil, apperrors.NewHistoryFailedError(err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, apperrors.NewHistoryFailedError(err)
		}
		var snap Snapshot
		if err := json.Unmarshal(body, &snap); err != nil {
			// A corrupted row is skipped, not fatal.
			s.log.Warn("discarding malformed history row", map[string]interface{}{"error": err.Error()})
			continue
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewHistoryFailedError(err)
	}
	return out, nil
}
