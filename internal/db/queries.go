package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chris/nudge/internal/counter"
)

// CounterStore keeps one named counter record in the counters table. It
// implements counter.Store.
type CounterStore struct {
	db   *DB
	name string
}

func (d *DB) CounterStore(name string) *CounterStore {
	return &CounterStore{db: d, name: name}
}

func (s *CounterStore) Get(ctx context.Context) (counter.Record, error) {
	var rec counter.Record
	err := s.db.conn.QueryRowContext(ctx,
		"SELECT start_date, total_days, created_at, last_calculated FROM counters WHERE name = ?",
		s.name,
	).Scan(&rec.StartDate, &rec.TotalDays, &rec.CreatedAt, &rec.LastCalculated)
	if errors.Is(err, sql.ErrNoRows) {
		return counter.Record{}, counter.ErrNotFound
	}
	if err != nil {
		return counter.Record{}, fmt.Errorf("getting counter %s: %w", s.name, err)
	}
	if rec.StartDate == "" {
		return counter.Record{}, fmt.Errorf("counter %s: %w: empty start_date", s.name, counter.ErrCorrupt)
	}
	return rec, nil
}

func (s *CounterStore) Put(ctx context.Context, rec counter.Record) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO counters (name, start_date, total_days, created_at, last_calculated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			start_date = excluded.start_date,
			total_days = excluded.total_days,
			created_at = excluded.created_at,
			last_calculated = excluded.last_calculated`,
		s.name, rec.StartDate, rec.TotalDays, rec.CreatedAt, rec.LastCalculated,
	)
	if err != nil {
		return fmt.Errorf("saving counter %s: %w", s.name, err)
	}
	return nil
}
