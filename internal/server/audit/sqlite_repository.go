package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/salarygate/internal/dbx"
)

// SQLiteRepository stores occurred_at as Unix nanoseconds so rows sort
// numerically.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Record(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, event_type, username, detail, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Type), e.Username, e.Detail, e.OccurredAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RecordBatch(ctx context.Context, events []Event) error {
	return recordBatch(ctx, r.db, events, func(tx dbx.DBTX) Recorder { return NewSQLiteRepository(tx) })
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, username string, limit int) ([]Event, error) {
	return r.query(ctx,
		`SELECT id, event_type, username, detail, occurred_at FROM audit_events
		 WHERE username = ? ORDER BY occurred_at DESC LIMIT ?`, username, limit)
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]Event, error) {
	return r.query(ctx,
		`SELECT id, event_type, username, detail, occurred_at FROM audit_events
		 ORDER BY occurred_at DESC LIMIT ?`, limit)
}

func (r *SQLiteRepository) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_events WHERE occurred_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit events: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e     Event
			typ   string
			nanos int64
		)
		if err := rows.Scan(&e.ID, &typ, &e.Username, &e.Detail, &nanos); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		e.Type = EventType(typ)
		e.OccurredAt = time.Unix(0, nanos)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit events: %w", err)
	}
	return events, nil
}
