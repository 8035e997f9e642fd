package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// MonthKey formats t (in UTC) as the usage row key, e.g. "2026-08".
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Count returns the recorded call count for the month, 0 when absent.
func (s *Store) Count(ctx context.Context, month string) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT count FROM brand_api_usage WHERE month = ?`, month).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Increment adds delta to the month's counter and returns the new total.
// The upsert is a single statement, so increments from concurrent
// processes sharing the database file serialize at the storage layer and
// never lose updates.
func (s *Store) Increment(ctx context.Context, month string, delta int) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO brand_api_usage (month, count) VALUES (?, ?)
		ON CONFLICT(month) DO UPDATE SET count = count + excluded.count
		RETURNING count`, month, delta).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
