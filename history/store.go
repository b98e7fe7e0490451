// Package history persists summary snapshots so trends come from real past passes.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// DefaultListLimit bounds List when no limit is given
const DefaultListLimit = 100

// Snapshot is one stored summary
type Snapshot struct {
	ID      int64           `json:"id"`
	Domain  quality.Domain  `json:"domain"`
	TakenAt time.Time       `json:"takenAt"`
	Records int             `json:"records"`
	Summary json.RawMessage `json:"summary"`
}

// Decode unmarshals the summary into v
func (s Snapshot) Decode(v any) error {
	return errors.Wrapf(json.Unmarshal(s.Summary, v), "decode %s snapshot %d", s.Domain, s.ID)
}

// Store handles persistence of summary snapshots (summary_snapshots table)
type Store struct {
	db *sql.DB
}

// NewStore creates a snapshot store on a migrated database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record stores summary for domain as of takenAt
func (s *Store) Record(ctx context.Context, domain quality.Domain, takenAt time.Time, records int, summary any) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrapf(err, "encode %s summary", domain)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO summary_snapshots (domain, taken_at, records, summary) VALUES (?, ?, ?, ?)`,
		string(domain), takenAt.UTC().Format(time.RFC3339), records, string(payload))
	if err != nil {
		return errors.Wrapf(err, "failed to record %s snapshot", domain)
	}
	return nil
}

// List returns domain's snapshots taken at or after since, newest first
func (s *Store) List(ctx context.Context, domain quality.Domain, since time.Time, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, domain, taken_at, records, summary
		FROM summary_snapshots
		WHERE domain = ? AND taken_at >= ?
		ORDER BY taken_at DESC, id DESC
		LIMIT ?`,
		string(domain), since.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s snapshots", domain)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap    Snapshot
			domain  string
			takenAt string
			summary string
		)
		if err := rows.Scan(&snap.ID, &domain, &takenAt, &snap.Records, &summary); err != nil {
			return nil, errors.Wrap(err, "failed to scan snapshot")
		}
		snap.Domain = quality.Domain(domain)
		snap.TakenAt, err = time.Parse(time.RFC3339, takenAt)
		if err != nil {
			return nil, errors.Wrapf(err, "snapshot %d has invalid taken_at %q", snap.ID, takenAt)
		}
		snap.Summary = json.RawMessage(summary)
		out = append(out, snap)
	}
	return out, errors.Wrap(rows.Err(), "iterate snapshots")
}

// Latest returns the newest snapshot for domain, or errors.ErrNotFound
func (s *Store) Latest(ctx context.Context, domain quality.Domain) (Snapshot, error) {
	snaps, err := s.List(ctx, domain, time.Time{}, 1)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snaps) == 0 {
		return Snapshot{}, errors.Wrapf(errors.ErrNotFound, "no %s snapshots", domain)
	}
	return snaps[0], nil
}

// Prune deletes snapshots taken before cutoff and returns how many were removed
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM summary_snapshots WHERE taken_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune snapshots")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}
