package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// sentAtLayout is fixed width so rows sort by text.
const sentAtLayout = "2006-01-02T15:04:05.000000Z"

// Delivery is one send attempt of a scheduled reminder.
type Delivery struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	Recipient int64     `json:"recipient"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

// RecordDelivery appends a delivery row, assigning an ID if d has none.
func (d *DB) RecordDelivery(ctx context.Context, del Delivery) error {
	if del.ID == "" {
		del.ID = uuid.NewString()
	}
	if del.SentAt.IsZero() {
		del.SentAt = time.Now()
	}
	ok := 0
	if del.OK {
		ok = 1
	}
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO deliveries (id, job_id, recipient, ok, error, sent_at) VALUES (?, ?, ?, ?, ?, ?)",
		del.ID, del.JobID, del.Recipient, ok, del.Error, del.SentAt.UTC().Format(sentAtLayout),
	)
	if err != nil {
		return fmt.Errorf("recording delivery %s: %w", del.JobID, err)
	}
	return nil
}

// ListDeliveries returns the most recent deliveries, newest first. An empty
// jobID lists every job.
func (d *DB) ListDeliveries(ctx context.Context, jobID string, limit int) ([]Delivery, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT id, job_id, recipient, ok, error, sent_at FROM deliveries"
	args := []any{}
	if jobID != "" {
		query += " WHERE job_id = ?"
		args = append(args, jobID)
	}
	query += " ORDER BY sent_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		var del Delivery
		var ok int
		var sentAt string
		if err := rows.Scan(&del.ID, &del.JobID, &del.Recipient, &ok, &del.Error, &sentAt); err != nil {
			return nil, fmt.Errorf("scanning delivery: %w", err)
		}
		del.OK = ok == 1
		if del.SentAt, err = time.Parse(sentAtLayout, sentAt); err != nil {
			return nil, fmt.Errorf("parsing sent_at %q: %w", sentAt, err)
		}
		out = append(out, del)
	}
	return out, rows.Err()
}
