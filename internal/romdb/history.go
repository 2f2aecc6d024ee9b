package romdb

import (
	"context"
	"fmt"
	"time"
)

// CheckRecord is one verified ROM in the check history.
type CheckRecord struct {
	ID        int64
	RunID     string
	Backend   string
	Name      string
	Path      string
	Status    string
	Detail    string
	Duration  time.Duration
	CheckedAt time.Time
}

// Record appends rec to the history. A zero CheckedAt is stamped with now.
func (s *Store) Record(ctx context.Context, rec CheckRecord) error {
	if rec.CheckedAt.IsZero() {
		rec.CheckedAt = time.Now()
	}
	_, err := s.exec(ctx,
		`INSERT INTO checks (run_id, backend, name, path, status, detail, duration_ms, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Backend, rec.Name, rec.Path, rec.Status, rec.Detail,
		rec.Duration.Milliseconds(), rec.CheckedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record check: %w", err)
	}
	return nil
}

// Recent returns up to limit history rows, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]CheckRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, run_id, backend, name, path, status, detail, duration_ms, checked_at
		 FROM checks ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []CheckRecord
	for rows.Next() {
		var (
			rec        CheckRecord
			durationMS int64
			checkedRaw string
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Backend, &rec.Name, &rec.Path,
			&rec.Status, &rec.Detail, &durationMS, &checkedRaw); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, checkedRaw); err == nil {
			rec.CheckedAt = ts
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}
